// ruleforge - Entity data reconciliation and scheduling rule authoring

// Package cli provides the Cobra-based command line for ruleforge. It wires the
// data commands (validate, diff, map), the rules command tree, configuration
// management and utilities onto one root command.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/cli/config"
	"github.com/ruleforge/ruleforge/internal/cli/data"
	"github.com/ruleforge/ruleforge/internal/cli/rules"
	"github.com/ruleforge/ruleforge/internal/cli/shared"
	"github.com/ruleforge/ruleforge/internal/cli/util"
	apperrors "github.com/ruleforge/ruleforge/internal/errors"
	"github.com/ruleforge/ruleforge/internal/logging"
)

// Command group IDs for organizing help output (re-exported from shared)
const (
	GroupGettingStarted = shared.GroupGettingStarted
	GroupData           = shared.GroupData
	GroupRules          = shared.GroupRules
	GroupConfiguration  = shared.GroupConfiguration
)

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ruleforge",
		Short: "Scheduling data validation and rule authoring",
		Long: `ruleforge validates client, worker and task data against a canonical schema,
cross-checks the entities against each other, and manages the business rules
exported to a scheduler as a versioned, priority-ordered configuration.`,
		Example: `  # Validate data and rules
  ruleforge validate entities.json --rules rules.yaml

  # Map a raw sheet into the entities document
  ruleforge map clients.raw.json --into entities.json

  # Author and export rules
  ruleforge rules new coRun --name "Pair T1 and T2" --add-to rules.yaml
  ruleforge rules export rules.yaml --out rules-config.json`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: GroupGettingStarted, Title: "Getting Started:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupData, Title: "Data:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupRules, Title: "Rules:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})

	rootCmd.SetHelpCommandGroupID(GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)

	rootCmd.PersistentFlags().StringP("config", "c", shared.DefaultLocalConfig, "Path to the project config file")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("plain", false, "Plain output without colors or spinners")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return apperrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(), "Run '"+cmd.CommandPath()+" --help' for details")
	})

	data.Register(rootCmd)
	rules.Register(rootCmd)
	config.Register(rootCmd)
	util.Register(rootCmd)
	return rootCmd
}

// Execute runs the command line with args and reports any error on stderr.
func Execute(ctx context.Context, args []string) error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	defer func() { _ = logging.Close() }()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		PrintError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// PrintError writes err for the user. Errors that only carry an exit code print nothing.
func PrintError(w io.Writer, err error) {
	if err == nil || shared.IsSilent(err) {
		return
	}
	if cliErr := apperrors.AsCLIError(err); cliErr != nil {
		apperrors.FprintError(w, cliErr)
		return
	}
	apperrors.FprintError(w, apperrors.Wrap(err, apperrors.Runtime))
}
