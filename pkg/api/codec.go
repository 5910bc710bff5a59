package api

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrShortRead - соединение закрылось посреди записи.
	ErrShortRead = errors.New("short read")

	commandSize = binary.Size(ClientCommand{})
	messageSize = binary.Size(ServerMessage{})
)

// CommandSize - точный размер записи команды на проводе.
func CommandSize() int { return commandSize }

// MessageSize - точный размер записи ответа на проводе.
func MessageSize() int { return messageSize }

// ReadCommand читает ровно одну запись команды.
// Неполная запись означает обрыв соединения и возвращает ErrShortRead.
func ReadCommand(r io.Reader) (*ClientCommand, error) {
	buf := make([]byte, commandSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("read command: %w", ErrShortRead)
		}
		return nil, err
	}
	return DecodeCommand(buf)
}

// DecodeCommand разбирает запись команды из буфера точного размера.
func DecodeCommand(buf []byte) (*ClientCommand, error) {
	if len(buf) != commandSize {
		return nil, fmt.Errorf("decode command: got %d bytes, want %d", len(buf), commandSize)
	}
	var cmd ClientCommand
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &cmd); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}
	return &cmd, nil
}

// EncodeCommand упаковывает команду (используется клиентами и тестами).
func EncodeCommand(cmd *ClientCommand) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(commandSize)
	if err := binary.Write(&buf, binary.LittleEndian, cmd); err != nil {
		return nil, fmt.Errorf("encode command: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeMessage упаковывает ответ сервера в запись фиксированного размера.
func EncodeMessage(msg *ServerMessage) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(messageSize)
	if err := binary.Write(&buf, binary.LittleEndian, msg); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeMessage разбирает запись ответа сервера.
func DecodeMessage(buf []byte) (*ServerMessage, error) {
	if len(buf) != messageSize {
		return nil, fmt.Errorf("decode message: got %d bytes, want %d", len(buf), messageSize)
	}
	var msg ServerMessage
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return &msg, nil
}

// WriteMessage пишет запись целиком. Частичная запись дописывается в цикле
// (io.Writer обязан вернуть ошибку при n < len).
func WriteMessage(w io.Writer, msg *ServerMessage) error {
	data, err := EncodeMessage(msg)
	if err != nil {
		return err
	}
	for written := 0; written < len(data); {
		n, err := w.Write(data[written:])
		if err != nil {
			return fmt.Errorf("write message: %w", err)
		}
		written += n
	}
	return nil
}
