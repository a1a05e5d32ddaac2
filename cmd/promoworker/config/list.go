package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Killi-Poyi/TheCredX/pkg/config"
)

const listLongDesc string = `List all configuration values.

Displays all configuration keys and their current values from the
promoworker.toml file stored in the .promoworker/ directory. Secrets such
as embedding.api_key are masked.

Examples:
  promoworker config list`

const listShortDesc string = "List all configuration values"

// secretKeys are masked in list output.
var secretKeys = map[string]bool{
	"embedding.api_key": true,
	"database.url":      true,
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runList(cmd, configDir)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command, configDir string) error {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	out := cmd.OutOrStdout()
	target := cfger.GetTarget()
	if target != "" {
		fmt.Fprintf(out, "Using config file: %s\n\n", target)
	} else {
		fmt.Fprint(out, "No config file found. Using default config.\n\n")
	}

	keys := config.ValidConfigKeys()

	// Find the longest key name for alignment.
	maxLen := 0
	for _, k := range keys {
		if len(k) > maxLen {
			maxLen = len(k)
		}
	}

	for _, key := range keys {
		value, err := cfger.GetConfigValue(key)
		if err != nil {
			return err
		}

		switch {
		case value == "":
			fmt.Fprintf(out, "%-*s = <not set>\n", maxLen, key)
		case secretKeys[key]:
			fmt.Fprintf(out, "%-*s = <set>\n", maxLen, key)
		default:
			fmt.Fprintf(out, "%-*s = %q\n", maxLen, key, value)
		}
	}

	return nil
}
