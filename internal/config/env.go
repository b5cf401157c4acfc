package config

import (
	"log/slog"
	"os"
	"strings"
)

// LogLevelFromEnv resolves the slog level from the EDGEBUILDER_LOG_LEVEL
// environment variable. The verbose flag takes precedence over the default
// but not over an explicit env setting.
func LogLevelFromEnv(verbose bool) slog.Level {
	switch strings.ToLower(os.Getenv("EDGEBUILDER_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
