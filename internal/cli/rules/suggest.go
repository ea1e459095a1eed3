package rules

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/assist"
	"github.com/ruleforge/ruleforge/internal/cli/shared"
	apperrors "github.com/ruleforge/ruleforge/internal/errors"
	"github.com/ruleforge/ruleforge/internal/progress"
	"github.com/ruleforge/ruleforge/internal/workspace"
)

type suggestOptions struct {
	dataPath      string
	rulesPath     string
	addTo         string
	minConfidence float64
	jsonOut       bool
}

func newSuggestCmd() *cobra.Command {
	opts := &suggestOptions{}
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest rules from patterns in the data",
		Long: `Ask the rule suggestion service (suggest_url) for rules implied by patterns in
the entity data, such as tasks that are always requested together.

Each suggested rule is validated locally. With --add-to, valid suggestions at or
above --min-confidence are appended to a rules document.`,
		Example: `  ruleforge rules suggest --data entities.json

  ruleforge rules suggest --data entities.json --rules rules.yaml \
    --add-to rules.yaml --min-confidence 0.8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.dataPath, "data", "", "Entities document to analyze (required)")
	cmd.Flags().StringVarP(&opts.rulesPath, "rules", "r", "", "Existing rules sent as context")
	cmd.Flags().StringVar(&opts.addTo, "add-to", "", "Append accepted suggestions to this rules document")
	cmd.Flags().Float64Var(&opts.minConfidence, "min-confidence", 0.7, "Lowest confidence accepted by --add-to")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output the result as JSON")
	return cmd
}

func runSuggest(cmd *cobra.Command, opts *suggestOptions) error {
	if err := shared.RequireFlags(cmd, "data"); err != nil {
		return err
	}
	if opts.minConfidence < 0 || opts.minConfidence > 1 {
		return apperrors.NewArgumentError(fmt.Sprintf("invalid --min-confidence %v", opts.minConfidence), "Use a value from 0 to 1")
	}
	rt, err := shared.Setup(cmd)
	if err != nil {
		return err
	}
	ents, err := shared.LoadEntities(opts.dataPath)
	if err != nil {
		return err
	}
	existing, err := shared.LoadRules(opts.rulesPath)
	if err != nil {
		return err
	}

	var suggestions []assist.Suggestion
	step := progress.StepInfo{Name: "suggest rules", Number: 1, TotalSteps: 1}
	if err := rt.Progress.Run(step, func() error {
		var err error
		suggestions, err = rt.RuleClient().Suggest(cmd.Context(), ents, existing)
		return err
	}); err != nil {
		return rt.ServiceError("rule suggestion", "suggest_url", err)
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		if err := shared.WriteJSON(out, suggestions); err != nil {
			return err
		}
	} else {
		printSuggestions(out, suggestions)
	}

	if opts.addTo == "" {
		return nil
	}
	added := 0
	for _, s := range suggestions {
		if !s.Validation.IsValid || s.Confidence < opts.minConfidence {
			continue
		}
		if err := workspace.AppendRule(opts.addTo, s.Rule); err != nil {
			return shared.SaveError(opts.addTo, err)
		}
		added++
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s added %s to %s\n", shared.Green(shared.PassMark), shared.Plural(added, "rule"), opts.addTo)
	return nil
}

func printSuggestions(w io.Writer, suggestions []assist.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "No suggestions.")
		return
	}
	for i, s := range suggestions {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n", shared.Bold(s.Title), shared.Dim(fmt.Sprintf("(%s, %.0f%%)", s.Type, s.Confidence*100)))
		if s.Description != "" {
			fmt.Fprintf(w, "  %s\n", s.Description)
		}
		if s.Reasoning != "" {
			fmt.Fprintf(w, "  %s %s\n", shared.Dim("why:"), s.Reasoning)
		}
		for _, e := range s.Evidence {
			fmt.Fprintf(w, "  %s %s.%s = %v (%s)\n", shared.Dim("seen:"), e.Entity, e.Field, e.Value, shared.Plural(e.Frequency, "time"))
		}
		shared.PrintRuleResult(w, s.Rule, s.Validation)
	}
}
