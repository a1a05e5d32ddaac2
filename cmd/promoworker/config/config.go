// Package configcmder provides the config command for managing persistent
// promoworker configuration stored in the .promoworker/ directory.
package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent promoworker configuration.

Configuration is stored as promoworker.toml in the .promoworker/ directory
and provides default values for command flags. Environment variables
(PROMOWORKER_*, and DATABASE_URL) and CLI flags take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  database.url, database.sqlite_path,
  embedding.provider, embedding.target, embedding.model,
  embedding.api_key, embedding.dimensions,
  events.provider, events.brokers, events.topic,
  worker.limit, worker.dry_run,
  log.level, log.pretty, log.json, log.file

Use subcommands to get, set, or list configuration values:
  promoworker config set <key> <value>    Set a configuration value
  promoworker config get <key>            Get a configuration value
  promoworker config list                 List all configuration values

Examples:
  promoworker config set embedding.model nomic-embed-text
  promoworker config set events.brokers kafka-1:9092,kafka-2:9092
  promoworker config get embedding.dimensions
  promoworker config list`

const configShortDesc string = "Manage persistent promoworker configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// header prints which config file a subcommand is working against.
func header(cmd *cobra.Command, target string) {
	out := cmd.OutOrStdout()
	if target != "" {
		fmt.Fprintf(out, "\n  %s %s\n\n", keyStyle(out, "Config file:"), dimStyle(out, target))
		return
	}
	fmt.Fprintf(out, "\n  %s\n\n", dimStyle(out, "No config file found. Using defaults."))
}
