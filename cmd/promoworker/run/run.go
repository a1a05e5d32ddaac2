// Package runcmder provides the `promoworker run` command.
package runcmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Killi-Poyi/TheCredX/cmd/promoworker/setup"
	"github.com/Killi-Poyi/TheCredX/pkg/cliui"
	"github.com/Killi-Poyi/TheCredX/pkg/config"
	"github.com/Killi-Poyi/TheCredX/pkg/embeddings"
	"github.com/Killi-Poyi/TheCredX/pkg/eventstream"
	"github.com/Killi-Poyi/TheCredX/pkg/promotion"
)

const runLongDesc string = `Embed every pending promotion once.

Scans the promotions table for rows with no embedding that are not yet
active, builds each row's text from its linked content item, embeds it and
activates the row. Each promotion is committed on its own; a failure rolls
back only that promotion and the run moves on.

The command exits 0 whenever the run finished through normal control flow,
including runs that could not reach the database. Outcomes are reported in
the log.

Examples:
  promoworker run
  promoworker run --sqlite ./promo.db --dry-run
  promoworker run --limit 50 --events-provider kafka --events-brokers localhost:9092
  DATABASE_URL=postgres://localhost/promo promoworker run --pretty`

const runShortDesc string = "Embed and activate pending promotions"

// runFlags are the registry keys bound by the run command.
var runFlags = []string{
	config.FlagDatabaseURL,
	config.FlagSQLite,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagEventsProv,
	config.FlagEventsBrokers,
	config.FlagEventsTopic,
	config.FlagLimit,
	config.FlagDryRun,
	config.FlagLogLevel,
	config.FlagLogFile,
}

type runCommander struct {
	databaseURL    string
	sqlitePath     string
	embeddingProv  string
	embeddingTgt   string
	embeddingModel string
	embeddingDims  uint
	eventsProv     string
	eventsBrokers  string
	eventsTopic    string
	limit          uint
	dryRun         bool
	logLevel       string
	logFile        string

	cfg    *config.Config
	pretty bool
	logger *slog.Logger
}

// NewRunCmd creates the run cobra command.
func NewRunCmd() *cobra.Command {
	cmder := &runCommander{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: runShortDesc,
		Long:  runLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup.LoadConfig(cmd, runFlags)
			if err != nil {
				return err
			}
			cmder.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagDatabaseURL, &cmder.databaseURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingProv, &cmder.embeddingProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingTgt, &cmder.embeddingTgt)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddUintFlag(cmd, config.Flags, config.FlagEmbeddingDims, &cmder.embeddingDims)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventsProv, &cmder.eventsProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventsBrokers, &cmder.eventsBrokers)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventsTopic, &cmder.eventsTopic)
	config.AddUintFlag(cmd, config.Flags, config.FlagLimit, &cmder.limit)
	config.AddBoolFlag(cmd, config.Flags, config.FlagDryRun, &cmder.dryRun)
	config.AddStringFlag(cmd, config.Flags, config.FlagLogLevel, &cmder.logLevel)
	config.AddStringFlag(cmd, config.Flags, config.FlagLogFile, &cmder.logFile)

	return cmd
}

func (c *runCommander) run(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	l, closeLog, err := setup.NewLogger(cmd, c.cfg, out)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	c.logger = l
	c.pretty = setup.Pretty(cmd, c.cfg, out)

	if c.cfg.Worker.DryRun && c.pretty {
		fmt.Fprintf(out, "  %s Dry run mode: no changes will be written\n\n", cliui.DimStyle.Render("●"))
	}

	embedder, err := c.loadEmbedder(ctx, out)
	if err != nil {
		c.logger.Error("failed to load embedding model", "error", err)
		return err
	}
	defer embedder.Close()

	publisher, err := setup.NewPublisher(c.cfg)
	if err != nil {
		return err
	}
	defer c.closePublisher(publisher)

	pipeline := promotion.New(promotion.Config{
		Open:      setup.NewOpener(c.cfg, c.logger),
		Embedder:  embedder,
		Publisher: publisher,
		Logger:    c.logger,
		Options: promotion.Options{
			DryRun: c.cfg.Worker.DryRun,
			Limit:  int(c.cfg.Worker.Limit),
			Model:  c.cfg.Embedding.Model,
		},
	})

	report := pipeline.Run(ctx)

	if c.pretty {
		c.printReport(out, report)
	}

	return nil
}

func (c *runCommander) loadEmbedder(ctx context.Context, out io.Writer) (*embeddings.Normalizer, error) {
	if !c.pretty {
		return setup.NewEmbedder(ctx, c.cfg, c.logger)
	}

	var embedder *embeddings.Normalizer
	err := cliui.Step(out, "Loading embedding model "+c.cfg.Embedding.Model, func() error {
		var err error
		embedder, err = setup.NewEmbedder(ctx, c.cfg, c.logger)
		return err
	})
	return embedder, err
}

func (c *runCommander) closePublisher(p eventstream.Publisher) {
	if err := p.Close(); err != nil {
		c.logger.Warn("failed to close event publisher", "error", err)
	}
}

func (c *runCommander) printReport(out io.Writer, report *promotion.Report) {
	rendered, err := cliui.RenderMarkdown(report.Markdown())
	if err != nil {
		c.logger.Debug("markdown rendering failed", "error", err)
	}
	fmt.Fprint(out, rendered)
}
