package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config represents the persistent promoworker configuration stored as
// promoworker.toml in the .promoworker/ directory. The TOML layout uses
// sections for logical grouping.
type Config struct {
	Version   int             `toml:"version"`
	Database  DatabaseConfig  `toml:"database"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Events    EventsConfig    `toml:"events"`
	Worker    WorkerConfig    `toml:"worker"`
	Log       LogConfig       `toml:"log"`
}

// DatabaseConfig selects the store. SQLitePath wins over URL when both are set.
type DatabaseConfig struct {
	URL        string `toml:"url,omitempty"`
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	APIKey     string `toml:"api_key,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// EventsConfig holds activation event publishing settings.
type EventsConfig struct {
	Provider string   `toml:"provider,omitempty"`
	Brokers  []string `toml:"brokers,omitempty"`
	Topic    string   `toml:"topic,omitempty"`
}

// WorkerConfig holds run behavior settings.
type WorkerConfig struct {
	Limit  uint `toml:"limit,omitempty"`
	DryRun bool `toml:"dry_run,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level,omitempty"`
	Pretty bool   `toml:"pretty,omitempty"`
	JSON   bool   `toml:"json,omitempty"`
	File   string `toml:"file,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"database.url": {
		get: func(c *Config) string { return c.Database.URL },
		set: func(c *Config, v string) error { c.Database.URL = v; return nil },
	},
	"database.sqlite_path": {
		get: func(c *Config) string { return c.Database.SQLitePath },
		set: func(c *Config, v string) error { c.Database.SQLitePath = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.api_key": {
		get: func(c *Config) string { return c.Embedding.APIKey },
		set: func(c *Config, v string) error { c.Embedding.APIKey = v; return nil },
	},
	"embedding.dimensions": {
		get: func(c *Config) string { return formatUint(c.Embedding.Dimensions) },
		set: func(c *Config, v string) error { return parseUint("embedding.dimensions", v, &c.Embedding.Dimensions) },
	},
	"events.provider": {
		get: func(c *Config) string { return c.Events.Provider },
		set: func(c *Config, v string) error { c.Events.Provider = v; return nil },
	},
	"events.brokers": {
		get: func(c *Config) string { return strings.Join(c.Events.Brokers, ",") },
		set: func(c *Config, v string) error { c.Events.Brokers = SplitList(v); return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
	"worker.limit": {
		get: func(c *Config) string { return formatUint(c.Worker.Limit) },
		set: func(c *Config, v string) error { return parseUint("worker.limit", v, &c.Worker.Limit) },
	},
	"worker.dry_run": {
		get: func(c *Config) string { return strconv.FormatBool(c.Worker.DryRun) },
		set: func(c *Config, v string) error { return parseBool("worker.dry_run", v, &c.Worker.DryRun) },
	},
	"log.level": {
		get: func(c *Config) string { return c.Log.Level },
		set: func(c *Config, v string) error { c.Log.Level = v; return nil },
	},
	"log.pretty": {
		get: func(c *Config) string { return strconv.FormatBool(c.Log.Pretty) },
		set: func(c *Config, v string) error { return parseBool("log.pretty", v, &c.Log.Pretty) },
	},
	"log.json": {
		get: func(c *Config) string { return strconv.FormatBool(c.Log.JSON) },
		set: func(c *Config, v string) error { return parseBool("log.json", v, &c.Log.JSON) },
	},
	"log.file": {
		get: func(c *Config) string { return c.Log.File },
		set: func(c *Config, v string) error { c.Log.File = v; return nil },
	},
}

func formatUint(n uint) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(n), 10)
}

func parseUint(key, v string, dst *uint) error {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dst = uint(n)
	return nil
}

func parseBool(key, v string, dst *bool) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dst = b
	return nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
