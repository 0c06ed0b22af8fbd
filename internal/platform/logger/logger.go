package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/rgareau/taskline/internal/config"
)

// Setup builds the application's JSON logger at the configured level, sets
// it as the slog default, and returns it. An unrecognized level falls back
// to info rather than failing startup.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	level := parseLevel(cfg.LogLevel)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler)

	// Make slog package-level functions use the same handler.
	slog.SetDefault(logger)

	return logger, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.New(slog.NewTextHandler(os.Stderr, nil)).
			Warn("invalid log level configured, using default level",
				"configured_level", s,
				"default_level", "info")
		return slog.LevelInfo
	}
}
