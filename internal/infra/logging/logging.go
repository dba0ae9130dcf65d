// Package logging builds the process logger from the configured format
// and level (KUBEROUTE_LOG_FORMAT / KUBEROUTE_LOG_LEVEL).
package logging

import (
	"log/slog"
	"os"
)

// New builds the logger and installs it as the slog default so code
// logging through the package-level functions lands in the same stream.
// Unknown level or format values fall back to the config defaults
// (info, json).
func New(logFormat, logLevel string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(logLevel),
	}

	var handler slog.Handler
	if logFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)

	slog.SetDefault(logger)

	return logger
}

func parseLevel(logLevel string) slog.Level {
	switch logLevel {
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
