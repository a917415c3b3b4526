package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init installs a JSON slog logger as the process default. Every record
// carries the service name and host.
func Init(service, level string) *slog.Logger {
	return initWith(os.Stdout, service, level)
}

func initWith(w io.Writer, service, level string) *slog.Logger {
	hostname, _ := os.Hostname()

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	logger := slog.New(handler).With(
		slog.String("service", service),
		slog.String("hostname", hostname),
	)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps debug, info, warn and error. Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
