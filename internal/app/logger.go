package app

import (
	"io"
	"log/slog"
)

// newLogger writes text records to w. Only warnings surface unless verbose
// is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
