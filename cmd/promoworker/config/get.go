package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Killi-Poyi/TheCredX/pkg/config"
)

const getLongDesc string = `Get a configuration value.

Reads the value for the given key from the promoworker.toml file stored in
the .promoworker/ directory. Keys use dotted notation matching the TOML
section structure.

Examples:
  promoworker config get embedding.model
  promoworker config get events.topic`

const getShortDesc string = "Get a configuration value"

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: getShortDesc,
		Long:  getLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runGet(cmd, args[0], configDir)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	return cmd
}

func runGet(cmd *cobra.Command, key, configDir string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	header(cmd, cfger.GetTarget())

	value, err := cfger.GetConfigValue(key)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if value == "" {
		fmt.Fprintf(out, "  %s  %s\n\n", keyStyle(out, key), dimStyle(out, "<not set>"))
	} else {
		fmt.Fprintf(out, "  %s  %s\n\n", keyStyle(out, key), valueStyle(out, value))
	}

	return nil
}
