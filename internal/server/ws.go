package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"shooter-server/pkg/api"
)

// writeWait - сколько ждем записи одной записи в сокет (TCP и WebSocket).
// Клиент, переставший читать, отключается по истечении.
const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsTransport - одна бинарная websocket-рамка на одну запись.
type wsTransport struct {
	conn *websocket.Conn
}

func newWSTransport(conn *websocket.Conn) *wsTransport {
	conn.SetReadLimit(int64(api.CommandSize()))
	return &wsTransport{conn: conn}
}

func (t *wsTransport) ReadCommand() (*api.ClientCommand, error) {
	kind, data, err := t.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if kind != websocket.BinaryMessage {
		return nil, fmt.Errorf("unexpected websocket frame type %d", kind)
	}
	return api.DecodeCommand(data)
}

func (t *wsTransport) WriteMessage(msg *api.ServerMessage) error {
	buf, err := api.EncodeMessage(msg)
	if err != nil {
		return err
	}
	if err := t.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return t.conn.WriteMessage(websocket.BinaryMessage, buf)
}

func (t *wsTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Error("Upgrade error")
		return
	}
	s.track(func() { s.serveConn(newWSTransport(conn)) })
}
