// Package logging builds the structured logger shared by the server and
// the CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config configures the logger.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // text, json
	Output io.Writer
}

// ParseLevel maps a level name onto a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be one of: debug, info, warn, error", s)
}

// ValidateFormat returns an error if the format is not recognized.
func ValidateFormat(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "json":
		return nil
	}
	return fmt.Errorf("invalid log format %q: must be one of: text, json", s)
}

// New creates a logger. Output defaults to stderr because stdout carries
// the MCP stdio transport. Unknown levels fall back to info.
func New(cfg Config) *slog.Logger {
	level, _ := ParseLevel(cfg.Level)

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
