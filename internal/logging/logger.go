// Package logging initializes the application-wide structured logger.
package logging

import (
	"log/slog"
	"os"
)

// InitLogger configures the default slog logger.
// level: "debug", "info", "warn", "error" (defaults to "info")
// format: "json" or "text" (defaults to "text")
func InitLogger(level, format string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// WithUser returns a logger with a user_id field.
func WithUser(userID string) *slog.Logger {
	return slog.Default().With("user_id", userID)
}

// WithPlatform returns a logger with a platform field.
func WithPlatform(platform string) *slog.Logger {
	return slog.Default().With("platform", platform)
}
