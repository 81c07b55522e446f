package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel converts a log.level setting to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log.level must be debug, info, warn or error, got %q", s)
	}
}

// NewLogger builds the CLI logger. Each -v lowers the configured level by
// one step; -q raises it to error.
func NewLogger(w io.Writer, cfg LogConfig, verbose int, quiet bool) *slog.Logger {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	level -= slog.Level(4 * verbose)
	if level < slog.LevelDebug {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
