// Package logging wires slog for structured logging to console and an
// optional daily log file, plus a chi-compatible request logging middleware.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SetupLogger builds the application logger. Console output is always on;
// when logDir is non-empty a date-stamped JSON log file is added alongside.
// Unknown level strings fall back to info.
func SetupLogger(logDir, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	if logDir == "" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		slog.Warn("Could not create log directory, console only", "dir", logDir, "error", err)
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}

	filename := filepath.Join(logDir, "rxcompare-"+time.Now().Format("2006-01-02")+".log")
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Warn("Could not open log file, console only", "file", filename, "error", err)
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}

	return slog.New(slog.NewJSONHandler(io.MultiWriter(os.Stdout, f), opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
