// Package config provides the "ruleforge config" commands for inspecting and
// editing configuration files.
package config

import (
	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/cli/shared"
)

// Register adds the config command and its subcommands to the root command.
func Register(rootCmd *cobra.Command) {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit configuration",
		Long: `Inspect and edit ruleforge configuration.

Values are merged from defaults, the user config (~/.ruleforge/config.json), the
project config (--config, default .ruleforge.json) and RULEFORGE_* environment
variables, later sources winning.`,
	}
	configCmd.GroupID = shared.GroupConfiguration

	configCmd.AddCommand(newShowCmd())
	configCmd.AddCommand(newSetCmd())
	configCmd.AddCommand(newKeysCmd())

	rootCmd.AddCommand(configCmd)
}
