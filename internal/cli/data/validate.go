package data

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/cli/shared"
	"github.com/ruleforge/ruleforge/internal/entity"
	"github.com/ruleforge/ruleforge/internal/progress"
	"github.com/ruleforge/ruleforge/internal/rules"
	"github.com/ruleforge/ruleforge/internal/session"
)

type validateOptions struct {
	rulesPath string
	jsonOut   bool
}

// validateReport is the --json form of a validation run.
type validateReport struct {
	Valid  bool                    `json:"valid"`
	Errors map[string]string       `json:"errors"`
	Rules  map[string]rules.Result `json:"rules"`
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <entities-file>",
		Short: "Validate entity data and rules",
		Long: `Validate an entities document (clients, workers and tasks tables).

Each row is checked against the canonical schema of its entity, then clients and
workers are cross-checked against tasks: requested task IDs must exist and every
required skill must be offered by some worker. With --rules the rules are
validated against the same data.

Exits with code 1 when any cell or rule is invalid.`,
		Example: `  # Validate entity data
  ruleforge validate entities.json

  # Validate data and rules together
  ruleforge validate entities.yaml --rules rules.json

  # Machine-readable output
  ruleforge validate entities.json --json`,
		Args: shared.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], opts)
		},
	}
	cmd.GroupID = shared.GroupData
	cmd.Flags().StringVarP(&opts.rulesPath, "rules", "r", "", "Rules document to validate against the data")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output the result as JSON")
	return cmd
}

func runValidate(cmd *cobra.Command, path string, opts *validateOptions) error {
	rt, err := shared.Setup(cmd)
	if err != nil {
		return err
	}

	steps := progress.Steps("load", "validate")
	var (
		ents entity.Entities
		list []rules.Rule
	)
	if err := rt.Progress.Run(steps[0], func() error {
		var err error
		if ents, err = shared.LoadEntities(path); err != nil {
			return err
		}
		list, err = shared.LoadRules(opts.rulesPath)
		return err
	}); err != nil {
		return err
	}

	s := session.New()
	s.Initialize(ents)
	for _, r := range list {
		if err := s.Rules().Add(r); err != nil {
			return fmt.Errorf("loading rules: %w", err)
		}
	}

	var (
		cellErrs entity.ErrorMap
		results  map[string]rules.Result
	)
	if err := rt.Progress.Run(steps[1], func() error {
		var err error
		cellErrs, results, err = s.Validate(cmd.Context())
		return err
	}); err != nil {
		return err
	}

	invalidRules := 0
	for _, res := range results {
		if !res.IsValid {
			invalidRules++
		}
	}
	valid := len(cellErrs) == 0 && invalidRules == 0

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		if err := shared.WriteJSON(out, validateReport{Valid: valid, Errors: cellErrs.Flat(), Rules: results}); err != nil {
			return err
		}
	} else {
		printValidation(out, path, ents, cellErrs, s.Rules(), invalidRules)
	}

	if !valid {
		return shared.NewExitError(shared.ExitValidationFailed)
	}
	return nil
}

func printValidation(w io.Writer, path string, ents entity.Entities, cellErrs entity.ErrorMap, set *rules.Set, invalidRules int) {
	fmt.Fprintf(w, "%s %s\n", shared.Bold("Validating"), path)
	for _, t := range entity.Types() {
		n := len(cellErrs.ForEntity(t))
		count := shared.Plural(n, "error")
		if n > 0 {
			count = shared.Red(count)
		}
		fmt.Fprintf(w, "  %-8s %s, %s\n", t+":", shared.Plural(len(ents.Table(t).Rows), "row"), count)
	}

	if len(cellErrs) > 0 {
		fmt.Fprintf(w, "\n%s\n", shared.Bold("Cell errors:"))
		for _, k := range cellErrs.Keys() {
			fmt.Fprintf(w, "  %s: %s\n", shared.CellLabel(ents, k), cellErrs[k])
		}
	}

	if set.Len() > 0 {
		fmt.Fprintf(w, "\n%s\n", shared.Bold("Rules:"))
		for _, r := range set.List() {
			res, _ := set.Result(r.Meta().ID)
			shared.PrintRuleResult(w, r, res)
		}
	}

	fmt.Fprintln(w)
	if len(cellErrs) == 0 && invalidRules == 0 {
		fmt.Fprintf(w, "%s all data and rules are valid\n", shared.Green(shared.PassMark))
		return
	}
	fmt.Fprintf(w, "%s %s, %d of %s invalid\n", shared.Red(shared.FailMark),
		shared.Plural(len(cellErrs), "cell error"), invalidRules, shared.Plural(set.Len(), "rule"))
}
