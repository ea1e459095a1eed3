// Package rules provides the "ruleforge rules" command tree: validating, creating,
// generating, suggesting and exporting business rules.
package rules

import (
	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/cli/shared"
)

// Register adds the rules command and its subcommands to the root command.
func Register(rootCmd *cobra.Command) {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Author, validate and export business rules",
		Long: `Author, validate and export business rules.

Rules are stored as JSON or YAML documents: either a bare list of rules or an
exported rules configuration. Every rule carries a "type" field naming one of the
types listed by 'ruleforge rules types'.`,
	}
	rulesCmd.GroupID = shared.GroupRules

	rulesCmd.AddCommand(newTypesCmd())
	rulesCmd.AddCommand(newNewCmd())
	rulesCmd.AddCommand(newValidateCmd())
	rulesCmd.AddCommand(newExportCmd())
	rulesCmd.AddCommand(newGenerateCmd())
	rulesCmd.AddCommand(newSuggestCmd())

	rootCmd.AddCommand(rulesCmd)
}
