// Package logger provides structured logging for the application.
//
// It utilizes Go's standard library log/slog package to implement
// structured JSON logging with configurable log levels.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup initializes the application's logging system. It creates a
// structured JSON logger at the configured level, sets it as the process
// default, and returns it for explicit injection into components.
//
// Unknown level strings fall back to info with a warning rather than
// failing startup.
func Setup(level string) *slog.Logger {
	return setup(level, os.Stdout)
}

func setup(level string, out io.Writer) *slog.Logger {
	parsed, ok := parseLevel(level)
	if !ok {
		tmp := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmp.Warn("invalid log level configured, using default level",
			"configured_level", level,
			"default_level", "info")
		parsed = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: parsed})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLevel converts a configuration string into a slog level.
// Matching is case-insensitive.
func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
