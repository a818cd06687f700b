package logger

import (
	"log/slog"
	"os"
)

// New returns the root structured logger. All modules receive their logger
// from main; none construct their own.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
