package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nikogura/folio/pkg/config"
)

// New creates a *slog.Logger from cfg writing to stderr and installs it as the default.
//
// Format "json" produces structured JSON output. Anything else produces text
// with source locations. Level is debug, info, warn or error; defaults to info.
func New(cfg config.LogConfig) (logger *slog.Logger) {
	logger = NewWithWriter(cfg, os.Stderr)
	slog.SetDefault(logger)
	return logger
}

// NewWithWriter is New without touching the default logger.
func NewWithWriter(cfg config.LogConfig, w io.Writer) (logger *slog.Logger) {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: !strings.EqualFold(cfg.Format, "json"),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger = slog.New(handler)
	return logger
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (level slog.Level) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return level
}
