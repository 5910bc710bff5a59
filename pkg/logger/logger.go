package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log - глобальный логгер сервера.
var Log *logrus.Logger

// Init настраивает глобальный логгер из окружения. Вызывается один раз в main
// и в TestMain каждого пакета с тестами.
//
//	LOG_LEVEL  - уровень (по умолчанию info)
//	LOG_FORMAT - json или text
//	LOG_FILE   - дописывать логи в файл вместо stdout
func Init() {
	Log = logrus.New()

	level, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		// Миллисекунды нужны, чтобы видеть дрейф тиков
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
			ForceColors:     true,
		})
	}

	Log.SetOutput(output())
}

// Component возвращает логгер подсистемы с полем component.
// До Init логгер создается лениво.
func Component(name string) *logrus.Entry {
	if Log == nil {
		Init()
	}
	return Log.WithField("component", name)
}

func output() io.Writer {
	path := os.Getenv("LOG_FILE")
	if path == "" {
		return os.Stdout
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logrus.WithError(err).Warn("Cannot open LOG_FILE, logging to stdout")
		return os.Stdout
	}
	return f
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
