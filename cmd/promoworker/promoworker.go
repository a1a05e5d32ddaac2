// Package promoworkercmder
package promoworkercmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/Killi-Poyi/TheCredX/cmd/promoworker/config"
	runcmder "github.com/Killi-Poyi/TheCredX/cmd/promoworker/run"
	similarcmder "github.com/Killi-Poyi/TheCredX/cmd/promoworker/similar"
	versioncmder "github.com/Killi-Poyi/TheCredX/cmd/version"
)

const promoworkerLongDesc string = `promoworker embeds newly ingested promotions for similarity search.

Each run scans the promotions table for rows with no embedding, builds
their text from the linked content item, embeds it and activates the row.

Commands:
  promoworker run                  Embed and activate pending promotions
  promoworker similar <article>    List promotions similar to an article
  promoworker config               Manage persistent configuration`

const promoworkerShortDesc string = "promoworker - promotion embedding worker"

func NewPromoworkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "promoworker",
		Short:         promoworkerShortDesc,
		Long:          promoworkerLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("pretty", false, "Render logs and the run report for a terminal (default: auto)")
	cmd.PersistentFlags().Bool("json", false, "Emit logs as JSON")
	cmd.PersistentFlags().String("config-dir", "", "Directory holding promoworker.toml (default: ./.promoworker or ~/.promoworker)")
	cmd.MarkFlagsMutuallyExclusive("pretty", "json")

	// Add subcommands
	cmd.AddCommand(runcmder.NewRunCmd())
	cmd.AddCommand(similarcmder.NewSimilarCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
