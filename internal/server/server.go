package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"shooter-server/internal/engine"
	"shooter-server/pkg/logger"
)

const (
	// shutdownTimeout - сколько ждем завершения HTTP-запросов при остановке.
	shutdownTimeout = 5 * time.Second
	// DrainTimeout - сколько ждем, пока писатели допишут последние сообщения.
	DrainTimeout = 3 * time.Second
)

type Server struct {
	Engine *engine.GameService
	cfg    engine.Config
	log    *logrus.Entry

	conns sync.WaitGroup // горутины соединений: читатели и писатели
}

func New(game *engine.GameService, cfg engine.Config) *Server {
	return &Server{
		Engine: game,
		cfg:    cfg,
		log:    logger.Component("server"),
	}
}

// Listen занимает первый свободный порт из Port..Port+PortRange.
func Listen(port, portRange int) (net.Listener, error) {
	var lastErr error
	for p := port; p <= port+portRange; p++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", p))
		if err == nil {
			return ln, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("no free port in %d..%d: %w", port, port+portRange, lastErr)
}

// Run принимает TCP-соединения и обслуживает HTTP до отмены ctx или первой ошибки.
func (s *Server) Run(ctx context.Context) error {
	ln, err := Listen(s.cfg.Port, s.cfg.PortRange)
	if err != nil {
		return err
	}
	s.log.WithField("addr", ln.Addr().String()).Info("Shooter server listening")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.serveTCP(ctx, ln)
	})
	g.Go(func() error {
		<-ctx.Done()
		return ln.Close()
	})

	if s.cfg.HTTPAddr != "" {
		srv := &http.Server{
			Addr:              s.cfg.HTTPAddr,
			Handler:           s.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			s.log.WithField("addr", s.cfg.HTTPAddr).Info("HTTP endpoints running")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	if !s.Drain(DrainTimeout) {
		s.log.Warn("Connections still open after drain timeout")
	}
	return err
}

// track запускает горутину соединения, которую дождется Drain.
func (s *Server) track(fn func()) {
	s.conns.Add(1)
	go func() {
		defer s.conns.Done()
		fn()
	}()
}

// Drain ждет, пока все соединения допишут очереди и закроются.
// Вызывается после GameService.Shutdown. false - не уложились в timeout.
func (s *Server) Drain(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// serveTCP - цикл приема соединений. Каждое соединение обслуживается своей горутиной.
func (s *Server) serveTCP(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		t := newStreamTransport(conn)
		s.track(func() { s.serveConn(t) })
	}
}

// isAdmin - соединения с loopback-адресов получают права админа.
func (s *Server) isAdmin(addr string) bool {
	if !s.cfg.AdminLoopback {
		return false
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
