// Package logging configures slog: JSON to stdout, plus an optional
// database sink for ERROR records.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup installs a JSON stdout logger at the given level and returns its
// handler so it can later be combined with other sinks.
func Setup(level string) slog.Handler {
	handler := NewJSONHandler(os.Stdout, level)
	slog.SetDefault(slog.New(handler))
	return handler
}

func NewJSONHandler(w io.Writer, level string) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
}

// ParseLevel maps debug, info, warn, and error; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
