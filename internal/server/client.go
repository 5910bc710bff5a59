package server

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"shooter-server/internal/engine"
	"shooter-server/pkg/api"
	"shooter-server/pkg/utils"
)

// transport - сокет клиента, передающий записи фиксированного размера целиком.
type transport interface {
	ReadCommand() (*api.ClientCommand, error)
	WriteMessage(msg *api.ServerMessage) error
	RemoteAddr() string
	Close() error
}

// streamTransport - записи поверх байтового потока (TCP).
type streamTransport struct {
	conn      net.Conn
	writeWait time.Duration
}

func newStreamTransport(conn net.Conn) *streamTransport {
	return &streamTransport{conn: conn, writeWait: writeWait}
}

func (t *streamTransport) ReadCommand() (*api.ClientCommand, error) {
	return api.ReadCommand(t.conn)
}

func (t *streamTransport) WriteMessage(msg *api.ServerMessage) error {
	if err := t.conn.SetWriteDeadline(time.Now().Add(t.writeWait)); err != nil {
		return err
	}
	return api.WriteMessage(t.conn, msg)
}

func (t *streamTransport) RemoteAddr() string {
	if addr := t.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

func (t *streamTransport) Close() error {
	return t.conn.Close()
}

// Client - посредник между сокетом и GameService
type Client struct {
	Game   *engine.GameService
	Conn   transport
	ID     int
	ConnID uuid.UUID
	log    *logrus.Entry
}

// serveConn занимает сессию под соединение и обслуживает его до закрытия.
func (s *Server) serveConn(t transport) {
	connID := utils.NewConnID()
	addr := t.RemoteAddr()
	log := s.log.WithFields(logrus.Fields{"conn": connID, "addr": addr})

	id, updates, err := s.Engine.Admit(addr, connID, s.isAdmin(addr))
	if err != nil {
		log.WithError(err).Warn("Connection rejected")
		if werr := t.WriteMessage(api.Reply(api.RespLoginFailServerFull)); werr != nil {
			log.WithError(werr).Debug("Failed to send server full")
		}
		_ = t.Close()
		return
	}

	c := &Client{
		Game:   s.Engine,
		Conn:   t,
		ID:     id,
		ConnID: connID,
		log:    log.WithField("session", id),
	}
	s.track(func() { c.writePump(updates) })
	c.readPump()
}

// readPump читает команды до ошибки или команды на закрытие,
// затем освобождает сессию. Канал обновлений закрывается, writePump закрывает сокет.
func (c *Client) readPump() {
	defer c.Game.Teardown(c.ID, c.ConnID)

	for {
		cmd, err := c.Conn.ReadCommand()
		if err != nil {
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
				c.log.Info("Client disconnected")
			case errors.Is(err, api.ErrShortRead):
				c.log.Warn("Client disconnected mid-record")
			default:
				c.log.WithError(err).Warn("Read failed")
			}
			return
		}
		if c.Game.Dispatch(c.ID, c.ConnID, cmd) {
			c.log.Info("Closing connection")
			return
		}
	}
}

// writePump пишет сообщения из канала сессии. После закрытия канала
// (или ошибки записи) закрывает сокет, что прерывает readPump.
func (c *Client) writePump(updates <-chan *api.ServerMessage) {
	defer func() {
		if err := c.Conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			c.log.WithError(err).Debug("Failed to close connection")
		}
	}()

	for msg := range updates {
		if err := c.Conn.WriteMessage(msg); err != nil {
			c.log.WithError(err).Debug("Write failed")
			return
		}
	}
}
