package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/polkiloo/pocha/internal/config"
	"go.uber.org/fx/fxevent"
)

// New creates a preconfigured slog.Logger at the configured level.
func New(cfg *config.Config) *slog.Logger {
	return newJSON(os.Stdout, cfg.LogLevel)
}

func newJSON(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// NewFxLogger routes fx lifecycle events through l.
func NewFxLogger(l *slog.Logger) fxevent.Logger {
	return &fxevent.SlogLogger{Logger: l.With("component", "fx")}
}
