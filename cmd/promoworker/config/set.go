package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Killi-Poyi/TheCredX/pkg/config"
)

const setLongDesc string = `Set a configuration value.

Sets the given key to the provided value in the promoworker.toml file
stored in the .promoworker/ directory. List values such as events.brokers
are comma separated.

Examples:
  promoworker config set database.sqlite_path ./promo.db
  promoworker config set embedding.provider openai
  promoworker config set embedding.dimensions 1536
  promoworker config set worker.dry_run true`

const setShortDesc string = "Set a configuration value"

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runSet(cmd, args[0], args[1], configDir)
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

func runSet(cmd *cobra.Command, key, value, configDir string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	header(cmd, cfger.GetTarget())

	if err := cfger.SetConfigValue(key, value); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  %s Set %s = %s\n\n", successMark(out), keyStyle(out, key), valueStyle(out, value))
	return nil
}
