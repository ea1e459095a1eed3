package rules

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/cli/shared"
	rulepkg "github.com/ruleforge/ruleforge/internal/rules"
)

type validateOptions struct {
	dataPath string
	jsonOut  bool
}

type ruleReport struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Type   rulepkg.Type   `json:"type"`
	Status rulepkg.Status `json:"status"`
	rulepkg.Result
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <rules-file>",
		Short: "Validate rules against entity data",
		Long: `Validate every rule in a rules document against an entities document.

Each rule's name and priority are checked, then its type-specific fields and
references: task IDs, worker and client groups, target entities and fields.
Disabled rules are validated too. Exits with code 1 when any rule is invalid.`,
		Example: `  ruleforge rules validate rules.json --data entities.json`,
		Args:    shared.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.dataPath, "data", "", "Entities document the rules refer to (required)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output the result as JSON")
	return cmd
}

func runValidate(cmd *cobra.Command, path string, opts *validateOptions) error {
	if err := shared.RequireFlags(cmd, "data"); err != nil {
		return err
	}
	if _, err := shared.Setup(cmd); err != nil {
		return err
	}
	ents, err := shared.LoadEntities(opts.dataPath)
	if err != nil {
		return err
	}
	list, err := shared.LoadRules(path)
	if err != nil {
		return err
	}

	set := rulepkg.NewSet()
	for _, r := range list {
		if err := set.Add(r); err != nil {
			return fmt.Errorf("loading rules: %w", err)
		}
	}
	results := set.Revalidate(ents)

	invalid := 0
	reports := make([]ruleReport, 0, set.Len())
	for _, r := range set.List() {
		b := r.Meta()
		status, _ := set.Status(b.ID)
		if status == rulepkg.StatusInvalid {
			invalid++
		}
		reports = append(reports, ruleReport{ID: b.ID, Name: b.Name, Type: r.Kind(), Status: status, Result: results[b.ID]})
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		if err := shared.WriteJSON(out, reports); err != nil {
			return err
		}
	} else {
		for _, r := range set.List() {
			shared.PrintRuleResult(out, r, results[r.Meta().ID])
		}
		fmt.Fprintf(out, "\n%d of %s valid\n", set.Len()-invalid, shared.Plural(set.Len(), "rule"))
	}

	if invalid > 0 {
		return shared.NewExitError(shared.ExitValidationFailed)
	}
	return nil
}
