package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Killi-Poyi/TheCredX/pkg/dotdir"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PROMOWORKER"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads promoworker.toml (if found
// via dotdir resolution), and binds environment variables with the
// PROMOWORKER_ prefix. database.url additionally honours the bare
// DATABASE_URL variable.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (PROMOWORKER_EMBEDDING_MODEL, DATABASE_URL, etc.)
//  3. promoworker.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
		if err := v.ReadInConfig(); err != nil {
			// Config file not found errors are fine, defaults will apply.
			if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("binding DATABASE_URL: %w", err)
	}

	return v, nil
}

// FromViper materializes the resolved configuration.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		Database: DatabaseConfig{
			URL:        v.GetString("database.url"),
			SQLitePath: v.GetString("database.sqlite_path"),
		},
		Embedding: EmbeddingConfig{
			Provider:   v.GetString("embedding.provider"),
			Target:     v.GetString("embedding.target"),
			Model:      v.GetString("embedding.model"),
			APIKey:     v.GetString("embedding.api_key"),
			Dimensions: v.GetUint("embedding.dimensions"),
		},
		Events: EventsConfig{
			Provider: v.GetString("events.provider"),
			Brokers:  listValue(v.Get("events.brokers")),
			Topic:    v.GetString("events.topic"),
		},
		Worker: WorkerConfig{
			Limit:  v.GetUint("worker.limit"),
			DryRun: v.GetBool("worker.dry_run"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Pretty: v.GetBool("log.pretty"),
			JSON:   v.GetBool("log.json"),
			File:   v.GetString("log.file"),
		},
	}
}

// listValue accepts a TOML array or a comma separated string from the
// environment or a flag.
func listValue(raw any) []string {
	switch t := raw.(type) {
	case nil:
		return nil
	case []string:
		var out []string
		for _, s := range t {
			out = append(out, SplitList(s)...)
		}
		return out
	case []any:
		var out []string
		for _, e := range t {
			out = append(out, SplitList(fmt.Sprint(e))...)
		}
		return out
	default:
		return SplitList(fmt.Sprint(t))
	}
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("database.sqlite_path", d.Database.SQLitePath)

	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.target", d.Embedding.Target)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.api_key", d.Embedding.APIKey)
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)

	v.SetDefault("events.provider", d.Events.Provider)
	v.SetDefault("events.brokers", d.Events.Brokers)
	v.SetDefault("events.topic", d.Events.Topic)

	v.SetDefault("worker.limit", d.Worker.Limit)
	v.SetDefault("worker.dry_run", d.Worker.DryRun)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.file", d.Log.File)
}
