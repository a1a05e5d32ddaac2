// Package setup resolves configuration and builds the collaborators shared by
// promoworker commands: the logger, the store opener, the embedder and the
// event publisher.
package setup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Killi-Poyi/TheCredX/pkg/cliui"
	"github.com/Killi-Poyi/TheCredX/pkg/config"
	"github.com/Killi-Poyi/TheCredX/pkg/embeddings"
	embeddingutils "github.com/Killi-Poyi/TheCredX/pkg/embeddings/utils"
	"github.com/Killi-Poyi/TheCredX/pkg/eventstream"
	eventstreamutils "github.com/Killi-Poyi/TheCredX/pkg/eventstream/utils"
	"github.com/Killi-Poyi/TheCredX/pkg/logger"
	"github.com/Killi-Poyi/TheCredX/pkg/promotion"
	"github.com/Killi-Poyi/TheCredX/pkg/storage"
	"github.com/Killi-Poyi/TheCredX/pkg/storage/postgres"
	"github.com/Killi-Poyi/TheCredX/pkg/storage/sqlite"
)

// StoreFlags are the registry keys every command that opens the store binds.
var StoreFlags = []string{
	config.FlagDatabaseURL,
	config.FlagSQLite,
}

// LoadConfig resolves configuration for cmd: defaults, promoworker.toml,
// PROMOWORKER_ environment variables, then the flags named by keys.
func LoadConfig(cmd *cobra.Command, keys []string) (*config.Config, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	config.BindRegisteredFlags(v, cmd, config.Flags, keys)

	return config.FromViper(v), nil
}

// Pretty reports whether log output to w should be rendered for a human.
// An explicit --pretty or --json wins, then the config file, then whether w
// is a terminal.
func Pretty(cmd *cobra.Command, cfg *config.Config, w io.Writer) bool {
	if f := cmd.Flags().Lookup("pretty"); f != nil && f.Changed {
		pretty, _ := cmd.Flags().GetBool("pretty")
		return pretty
	}
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut || cfg.Log.JSON {
		return false
	}
	if cfg.Log.Pretty {
		return true
	}
	return cliui.IsTerminal(w)
}

// NewLogger builds the process logger writing to w. When log.file is set,
// records are also appended to that file as JSON. The returned func closes
// the file.
func NewLogger(cmd *cobra.Command, cfg *config.Config, w io.Writer) (*slog.Logger, func() error, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	jsonOut, _ := cmd.Flags().GetBool("json")

	console := logger.New(
		logger.WithLevel(cfg.Log.Level),
		logger.WithDebug(debug),
		logger.WithPretty(Pretty(cmd, cfg, w)),
		logger.WithJSON(jsonOut || cfg.Log.JSON),
		logger.WithWriter(w),
	)

	if cfg.Log.File == "" {
		return console, func() error { return nil }, nil
	}

	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	file := logger.New(
		logger.WithLevel(cfg.Log.Level),
		logger.WithDebug(debug),
		logger.WithJSON(true),
		logger.WithWriter(f),
	)

	return logger.Multi(console, file), f.Close, nil
}

// NewOpener returns the store opener for cfg. A SQLite path takes
// precedence over the connection string. With neither set it returns nil,
// which the pipeline reports as a configuration error. Failed statements
// are logged to l at debug level.
func NewOpener(cfg *config.Config, l *slog.Logger) promotion.Opener {
	if path := cfg.Database.SQLitePath; path != "" {
		return func(ctx context.Context) (storage.Conn, error) {
			conn, err := sqlite.Open(ctx, path)
			if err != nil {
				return nil, err
			}
			conn.WithLogger(l)
			if err := conn.EnsureSchema(ctx); err != nil {
				_ = conn.Close(ctx)
				return nil, err
			}
			return conn, nil
		}
	}

	if dsn := cfg.Database.URL; dsn != "" {
		return func(ctx context.Context) (storage.Conn, error) {
			conn, err := postgres.Open(ctx, dsn)
			if err != nil {
				return nil, err
			}
			return conn.WithLogger(l), nil
		}
	}

	return nil
}

// NewEmbedder loads the configured embedding model once.
func NewEmbedder(ctx context.Context, cfg *config.Config, l *slog.Logger) (*embeddings.Normalizer, error) {
	return embeddingutils.NewEmbedder(ctx, &embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
		APIKey:       cfg.Embedding.APIKey,
		Dimensions:   int(cfg.Embedding.Dimensions),
		Logger:       l,
	})
}

// NewPublisher builds the configured activation event publisher.
func NewPublisher(cfg *config.Config) (eventstream.Publisher, error) {
	return eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		ProviderType: cfg.Events.Provider,
		Brokers:      cfg.Events.Brokers,
		Topic:        cfg.Events.Topic,
	})
}
