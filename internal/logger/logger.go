// Package logger holds the process-wide structured logger for the expenso
// API. Packages log through logger.Log; main reconfigures it from the
// log_level and log_json settings at startup.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

var Log *slog.Logger

func init() {
	// Default configuration so tests and early startup code can log before
	// main calls Initialize with the deployment settings.
	Initialize("info", false)
}

// Initialize replaces the global logger. JSON output is meant for
// production log shipping, text for local development.
func Initialize(level string, useJSON bool) {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

// parseLevel maps a config string to a slog.Level, defaulting to info on
// anything unrecognized rather than failing startup.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
