package rules

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/cli/shared"
	apperrors "github.com/ruleforge/ruleforge/internal/errors"
	rulepkg "github.com/ruleforge/ruleforge/internal/rules"
	"github.com/ruleforge/ruleforge/internal/workspace"
)

type newOptions struct {
	name        string
	description string
	priority    int
	addTo       string
}

func newNewCmd() *cobra.Command {
	opts := &newOptions{}
	cmd := &cobra.Command{
		Use:   "new <type>",
		Short: "Create a rule template",
		Long: `Create a rule of the given type with a fresh id, priority 5, enabled, and an
empty payload to fill in. The rule is printed as JSON, or appended to a rules
document with --add-to.`,
		Example: `  # Print a co-run template
  ruleforge rules new coRun --name "Pair T1 and T2"

  # Append a phase window template to rules.yaml
  ruleforge rules new phaseWindow --name "Early T3" --add-to rules.yaml`,
		Args: shared.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Rule name (defaults to the type's display name)")
	cmd.Flags().StringVar(&opts.description, "description", "", "Rule description")
	cmd.Flags().IntVarP(&opts.priority, "priority", "p", 5, "Rule priority, 1 to 10")
	cmd.Flags().StringVar(&opts.addTo, "add-to", "", "Append the rule to this rules document")
	return cmd
}

func runNew(cmd *cobra.Command, typeName string, opts *newOptions) error {
	t, ok := rulepkg.ParseType(typeName)
	if !ok {
		return apperrors.InvalidRuleType(typeName)
	}
	if opts.priority < 1 || opts.priority > 10 {
		return apperrors.NewArgumentError(fmt.Sprintf("invalid priority %d", opts.priority), "Use a priority from 1 to 10")
	}
	if _, err := shared.Setup(cmd); err != nil {
		return err
	}

	name := opts.name
	if name == "" {
		name = rulepkg.DisplayName(t)
	}
	r := rulepkg.Template(t, name, opts.description)
	r.Meta().Priority = opts.priority

	if opts.addTo == "" {
		return shared.WriteJSON(cmd.OutOrStdout(), r)
	}
	if _, err := workspace.FormatFor(opts.addTo); err != nil {
		return apperrors.UnsupportedFormat(opts.addTo)
	}
	if err := workspace.AppendRule(opts.addTo, r); err != nil {
		return shared.SaveError(opts.addTo, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s added %s to %s\n", shared.Green(shared.PassMark), r.Meta().ID, opts.addTo)
	return nil
}
