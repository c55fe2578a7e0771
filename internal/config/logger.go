package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process logger. Production emits JSON at info level;
// every other environment emits text at debug level with source locations.
// A non-empty level ("debug", "info", "warn", "error") overrides the default.
func NewLogger(env, level string) *slog.Logger {
	return newLogger(env, level, os.Stdout)
}

func newLogger(env, level string, w io.Writer) *slog.Logger {
	production := env == "production"

	opts := &slog.HandlerOptions{
		Level:     defaultLevel(production),
		AddSource: !production,
	}
	if level != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err == nil {
			opts.Level = lvl
		}
	}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if production {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(slog.String("service", "aspiro"))
}

func defaultLevel(production bool) slog.Level {
	if production {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}
