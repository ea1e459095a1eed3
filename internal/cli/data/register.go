// Package data provides the CLI commands that work on entity documents:
// validate, diff and map.
package data

import (
	"github.com/spf13/cobra"
)

// Register adds all data commands to the root command.
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newMapCmd())
}
