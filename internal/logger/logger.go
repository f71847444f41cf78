// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Provides Init() to configure default logger with level and format from environment.

package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init configures the default slog logger based on environment variables.
// LOG_LEVEL: debug, info, warn, error (default: warn, so command output stays clean)
// LOG_FORMAT: text, json (default: text)
// Logs go to w; commands pass stderr, the TUI passes its debug log file.
func Init(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	slog.SetDefault(slog.New(NewHandler(w, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))))
}

// NewHandler builds the handler Init installs.
func NewHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Redact shortens a bearer token for log lines.
func Redact(token string) string {
	if token == "" {
		return "<none>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "..."
}
