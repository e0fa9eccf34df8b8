package config

import (
	"log/slog"
	"strings"
)

// parseLevel maps a config log level name onto an slog level.
// "warning" is accepted for compatibility with older config files.
func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// SlogLevel returns the effective log level. Verbose always means debug.
func (c *Config) SlogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	level, _ := parseLevel(c.LogLevel)
	return level
}
