// Package similarcmder provides the `promoworker similar` command.
package similarcmder

import (
	"context"
	"errors"
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/Killi-Poyi/TheCredX/cmd/promoworker/setup"
	"github.com/Killi-Poyi/TheCredX/pkg/config"
	"github.com/Killi-Poyi/TheCredX/pkg/logger"
	"github.com/Killi-Poyi/TheCredX/pkg/promotion"
	"github.com/Killi-Poyi/TheCredX/pkg/storage"
	"github.com/Killi-Poyi/TheCredX/pkg/utils"
)

var (
	rankStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
)

const similarLongDesc string = `List active promotions similar to an article.

Looks up the embedded promotion for the given article and returns the
nearest active promotions by cosine distance. Requires the article's
promotion to have been embedded by "promoworker run".

Use --quiet to print only promotion IDs, one per line.

Examples:
  promoworker similar 42
  promoworker similar 42 --top 10
  promoworker similar 42 --sqlite ./promo.db --quiet`

const similarShortDesc string = "List promotions similar to an article"

// ErrNoDatabase is returned when neither a connection string nor a SQLite
// path is configured.
var ErrNoDatabase = errors.New("no database configured; set DATABASE_URL or pass --sqlite")

type similarCommander struct {
	articleID string
	topK      int
	quiet     bool

	databaseURL string
	sqlitePath  string

	cfg *config.Config
}

// NewSimilarCmd creates the similar cobra command.
func NewSimilarCmd() *cobra.Command {
	cmder := &similarCommander{}

	cmd := &cobra.Command{
		Use:   "similar <article-id>",
		Short: similarShortDesc,
		Long:  similarLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup.LoadConfig(cmd, setup.StoreFlags)
			if err != nil {
				return err
			}
			cmder.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.articleID = args[0]
			return cmder.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&cmder.topK, "top", "k", 5, "Number of results to return")
	cmd.Flags().BoolVarP(&cmder.quiet, "quiet", "q", false, "Output only promotion IDs, one per line (for piping)")
	config.AddStringFlag(cmd, config.Flags, config.FlagDatabaseURL, &cmder.databaseURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)

	return cmd
}

func (c *similarCommander) run(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	open := setup.NewOpener(c.cfg, logger.Nop())
	if open == nil {
		return ErrNoDatabase
	}

	conn, err := open(ctx)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer storage.Close(ctx, conn, logger.Nop())

	matches, err := promotion.Similar(ctx, conn, c.articleID, c.topK)
	if err != nil {
		return err
	}

	if c.quiet {
		for _, m := range matches {
			fmt.Fprintln(out, m.PromotionID)
		}
		return nil
	}

	if len(matches) == 0 {
		fmt.Fprintln(out, "No similar promotions found.")
		return nil
	}

	fmt.Fprintf(out, "\n%s %s\n\n",
		headerStyle.Render("Promotions similar to article"),
		idStyle.Render(c.articleID),
	)

	for i, m := range matches {
		fmt.Fprintf(out, "  %s  %s  %s  %s\n",
			rankStyle.Render(fmt.Sprintf("#%d", i+1)),
			scoreStyle.Render(fmt.Sprintf("distance: %.4f", m.Distance)),
			idStyle.Render(m.PromotionID+" ("+m.ArticleID+")"),
			titleStyle.Render(utils.Truncate(m.Title, 60)),
		)
	}
	fmt.Fprintln(out)

	return nil
}
