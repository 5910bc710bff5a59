package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"shooter-server/internal/agent"
	"shooter-server/internal/engine"
	"shooter-server/internal/infrastructure/storage"
	"shooter-server/internal/server"
	"shooter-server/internal/version"
	"shooter-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	cfg := engine.NewConfig()
	applyEnv(&cfg)

	var seed int64
	var bots int
	flag.IntVar(&cfg.Port, "port", cfg.Port, "First TCP port to try")
	flag.IntVar(&cfg.PortRange, "port-range", cfg.PortRange, "How many following ports to try if the first is busy")
	flag.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "HTTP address for health, debug and websocket (empty disables)")
	flag.StringVar(&cfg.UsersFile, "users", cfg.UsersFile, "Registered users file")
	flag.DurationVar(&cfg.TickPeriod, "tick", cfg.TickPeriod, "Arena tick period")
	flag.Int64Var(&seed, "seed", 0, "Master seed (0 for random)")
	flag.IntVar(&bots, "bots", 0, "Number of in-process bots joining free-for-all")
	flag.Parse()

	// Порт можно передать единственным позиционным аргументом
	if flag.NArg() > 0 {
		port, err := strconv.Atoi(flag.Arg(0))
		if err != nil {
			logger.Log.Fatalf("Invalid port %q", flag.Arg(0))
		}
		cfg.Port = port
	}

	logger.Log.Info("Starting shooter server...")
	logger.Log.Info(version.String())

	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("Using explicit master seed: %d", seed)
	} else {
		logger.Log.Infof("Using random master seed: %d", cfg.Seed)
	}

	// 2. Учетные записи. Испорченный файл не мешает старту: список пуст.
	users := storage.NewUserStore(cfg.UsersFile)
	if err := users.Load(); err != nil {
		logger.Log.WithError(err).Error("Starting with an empty user list")
	}

	// 3. Ядро и транспорт
	gameService := engine.NewService(cfg, users)
	srv := server.New(gameService, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Run(ctx)
	}()

	// 4. Боты
	for i := 0; i < bots; i++ {
		bot, err := agent.NewBot(fmt.Sprintf("bot%d", i+1), gameService, cfg.Seed+int64(i))
		if err != nil {
			logger.Log.WithError(err).Warn("Failed to start bot")
			break
		}
		go bot.Run(ctx)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	exitCode := 0
	serverDone := false
	select {
	case sig := <-stop:
		reason := ""
		if sig != os.Interrupt {
			reason = fmt.Sprintf(" (runtime error: %s)", sig)
			exitCode = 1
		}
		logger.Log.WithField("signal", sig.String()).Info("Shutting down...")
		gameService.Fatal(reason)

	case reason := <-gameService.FatalSignal():
		logger.Log.WithField("reason", reason).Warn("Fatal requested by client, shutting down...")
		exitCode = 1

	case err := <-serverErr:
		serverDone = true
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Error("Server stopped")
			exitCode = 1
		}
	}

	// 5. Остановка: разрыв всех сессий, затем листенеров
	gameService.Shutdown()
	cancel()
	// Run возвращается только после того, как писатели дописали очереди
	if !serverDone {
		if err := <-serverErr; err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Warn("Server shutdown error")
		}
	} else {
		srv.Drain(server.DrainTimeout)
	}

	logger.Log.Info("Done.")
	os.Exit(exitCode)
}

// applyEnv читает переопределения из окружения.
func applyEnv(cfg *engine.Config) {
	if v := os.Getenv("SHOOTER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		} else {
			logger.Log.WithField("value", v).Warn("Ignoring invalid SHOOTER_PORT")
		}
	}
	if v, ok := os.LookupEnv("SHOOTER_HTTP"); ok {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("SHOOTER_USERS"); v != "" {
		cfg.UsersFile = v
	}
}
