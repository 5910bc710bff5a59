package server

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"shooter-server/internal/domain"
	"shooter-server/internal/engine"
	"shooter-server/internal/infrastructure/storage"
	"shooter-server/internal/session"
	"shooter-server/pkg/api"
	"shooter-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	users := storage.NewUserStore(filepath.Join(t.TempDir(), "userlists.log"))
	if err := users.Register("alice", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	cfg := engine.NewConfig()
	cfg.TickPeriod = time.Hour
	cfg.HTTPAddr = ""
	game := engine.NewService(cfg, users)
	t.Cleanup(game.Shutdown)
	return New(game, cfg)
}

func command(t *testing.T, code domain.CommandCode, name, password string) []byte {
	t.Helper()
	cmd := &api.ClientCommand{Command: uint8(code)}
	api.PutString(cmd.UserName[:], name)
	api.PutString(cmd.Password[:], password)
	buf, err := api.EncodeCommand(cmd)
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	return buf
}

func readMessage(t *testing.T, r io.Reader) *api.ServerMessage {
	t.Helper()
	buf := make([]byte, api.MessageSize())
	if _, err := io.ReadFull(r, buf); err != nil {
		t.Fatalf("read message: %v", err)
	}
	msg, err := api.DecodeMessage(buf)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	return msg
}

func TestServeConn_LoginAndQuit(t *testing.T) {
	s := newTestServer(t)
	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()

	done := make(chan struct{})
	go func() {
		s.serveConn(newStreamTransport(serverSide))
		close(done)
	}()

	go clientSide.Write(command(t, domain.CmdLogin, "alice", "pw"))
	if msg := readMessage(t, clientSide); msg.Response != api.RespLoginSuccess {
		t.Fatalf("response = %d, want login success", msg.Response)
	}

	go clientSide.Write(command(t, domain.CmdQuit, "", ""))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("connection worker did not stop after quit")
	}

	// Сокет закрыт писателем после освобождения сессии
	buf := make([]byte, 1)
	if _, err := clientSide.Read(buf); err == nil {
		t.Error("expected closed connection")
	}
	if n := len(s.Engine.Sessions.Connected()); n != 0 {
		t.Errorf("connected sessions = %d, want 0", n)
	}
}

func TestServeConn_ShortReadReleasesSession(t *testing.T) {
	s := newTestServer(t)
	clientSide, serverSide := net.Pipe()

	done := make(chan struct{})
	go func() {
		s.serveConn(newStreamTransport(serverSide))
		close(done)
	}()

	full := command(t, domain.CmdLogin, "alice", "pw")
	if _, err := clientSide.Write(full[:10]); err != nil {
		t.Fatalf("write: %v", err)
	}
	clientSide.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("connection worker did not stop on short read")
	}
	if n := len(s.Engine.Sessions.Connected()); n != 0 {
		t.Errorf("connected sessions = %d, want 0", n)
	}
}

func TestServeConn_ServerFull(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < domain.MaxUsers; i++ {
		if _, _, err := s.Engine.Admit("10.0.0.1:1", uuid.New(), false); err != nil {
			t.Fatalf("Admit #%d: %v", i, err)
		}
	}

	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()
	go s.serveConn(newStreamTransport(serverSide))

	if msg := readMessage(t, clientSide); msg.Response != api.RespLoginFailServerFull {
		t.Errorf("response = %d, want server full", msg.Response)
	}
}

func TestDrain_FlushesFatalNotice(t *testing.T) {
	s := newTestServer(t)
	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()
	s.track(func() { s.serveConn(newStreamTransport(serverSide)) })

	go clientSide.Write(command(t, domain.CmdLogin, "alice", "pw"))
	if msg := readMessage(t, clientSide); msg.Response != api.RespLoginSuccess {
		t.Fatalf("response = %d, want login success", msg.Response)
	}

	// Порядок как в main: уведомление, затем разрыв всех сессий
	s.Engine.Fatal("")
	s.Engine.Shutdown()

	drained := make(chan bool, 1)
	go func() { drained <- s.Drain(2 * time.Second) }()

	for {
		msg := readMessage(t, clientSide)
		if msg.Response == api.RespStatusFatal {
			break
		}
	}
	go io.Copy(io.Discard, clientSide)

	select {
	case ok := <-drained:
		if !ok {
			t.Error("Drain timed out with the fatal notice already delivered")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Drain did not return")
	}
}

func TestServeConn_StalledReaderHitsWriteDeadline(t *testing.T) {
	s := newTestServer(t)
	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()

	done := make(chan struct{})
	go func() {
		s.serveConn(&streamTransport{conn: serverSide, writeWait: 50 * time.Millisecond})
		close(done)
	}()

	go clientSide.Write(command(t, domain.CmdLogin, "alice", "pw"))
	if msg := readMessage(t, clientSide); msg.Response != api.RespLoginSuccess {
		t.Fatalf("response = %d, want login success", msg.Response)
	}

	// Клиент больше не читает: запись упирается в дедлайн, писатель закрывает сокет
	s.Engine.Fatal("")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stalled client was not disconnected")
	}
	if n := len(s.Engine.Sessions.Connected()); n != 0 {
		t.Errorf("connected sessions = %d, want 0", n)
	}
}

func TestListen_FallsBackToNextPort(t *testing.T) {
	busy, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()
	port := busy.Addr().(*net.TCPAddr).Port

	ln, err := Listen(port, 20)
	if err != nil {
		t.Skipf("no free port near %d: %v", port, err)
	}
	defer ln.Close()

	if got := ln.Addr().(*net.TCPAddr).Port; got == port {
		t.Errorf("bound the busy port %d", got)
	}
}

func TestIsAdmin(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:5000", true},
		{"[::1]:5000", true},
		{"10.1.2.3:5000", false},
		{"pipe", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := s.isAdmin(tt.addr); got != tt.want {
				t.Errorf("isAdmin(%q) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}

	s.cfg.AdminLoopback = false
	if s.isAdmin("127.0.0.1:5000") {
		t.Error("loopback admin must be configurable")
	}
}

func TestHTTP_HealthAndDebug(t *testing.T) {
	s := newTestServer(t)
	if _, _, err := s.Engine.Admit("10.0.0.1:1", uuid.New(), false); err != nil {
		t.Fatalf("Admit: %v", err)
	}
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("/health = %d %q", resp.StatusCode, body)
	}

	resp, err = http.Get(ts.URL + "/debug/sessions")
	if err != nil {
		t.Fatalf("GET /debug/sessions: %v", err)
	}
	var infos []session.Info
	if err := json.NewDecoder(resp.Body).Decode(&infos); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	resp.Body.Close()
	if len(infos) != 1 || infos[0].Name != session.UnknownName {
		t.Errorf("sessions = %+v", infos)
	}

	resp, err = http.Get(ts.URL + "/debug/sessions?format=msgpack")
	if err != nil {
		t.Fatalf("GET msgpack: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/msgpack" {
		t.Errorf("content type = %q", ct)
	}
	var packed []session.Info
	if err := msgpack.Unmarshal(raw, &packed); err != nil {
		t.Fatalf("decode msgpack: %v", err)
	}
	if len(packed) != 1 || packed[0].Addr != "10.0.0.1:1" {
		t.Errorf("msgpack sessions = %+v", packed)
	}

	resp, err = http.Get(ts.URL + "/debug/arenas")
	if err != nil {
		t.Fatalf("GET /debug/arenas: %v", err)
	}
	raw, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Errorf("/debug/arenas = %s, want []", raw)
	}
}

func TestWebSocket_Login(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.BinaryMessage, command(t, domain.CmdLogin, "alice", "pw")); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("frame type = %d, want binary", kind)
	}
	msg, err := api.DecodeMessage(data)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if msg.Response != api.RespLoginSuccess {
		t.Errorf("response = %d, want login success", msg.Response)
	}
}
