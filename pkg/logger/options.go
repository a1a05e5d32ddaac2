package logger

import (
	"io"
	"log/slog"
	"strings"
)

// Option configures a logger created with New.
type Option func(*config)

// WithDebug switches the minimum level to Debug.
func WithDebug(debug bool) Option {
	return func(c *config) {
		if debug {
			c.level = slog.LevelDebug
		}
	}
}

// WithLevel parses a level name ("debug", "info", "warn", "error").
// Unknown names leave the level unchanged.
func WithLevel(level string) Option {
	return func(c *config) {
		switch strings.ToLower(strings.TrimSpace(level)) {
		case "debug":
			c.level = slog.LevelDebug
		case "info":
			c.level = slog.LevelInfo
		case "warn", "warning":
			c.level = slog.LevelWarn
		case "error":
			c.level = slog.LevelError
		}
	}
}

// WithPretty renders records through charmbracelet/log for terminals.
func WithPretty(pretty bool) Option {
	return func(c *config) {
		c.pretty = pretty
	}
}

// WithJSON emits one JSON object per record. Ignored when WithPretty is set.
func WithJSON(json bool) Option {
	return func(c *config) {
		c.json = json
	}
}

// WithWriter replaces the output writer.
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		c.writers = []io.Writer{w}
	}
}

// WithWriters writes every record to all of w.
func WithWriters(w ...io.Writer) Option {
	return func(c *config) {
		c.writers = w
	}
}

// WithSource adds the caller's file:line to each record.
func WithSource(source bool) Option {
	return func(c *config) {
		c.source = source
	}
}
