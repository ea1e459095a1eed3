package rules

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/assist"
	"github.com/ruleforge/ruleforge/internal/cli/shared"
	"github.com/ruleforge/ruleforge/internal/progress"
	"github.com/ruleforge/ruleforge/internal/workspace"
)

type generateOptions struct {
	dataPath  string
	rulesPath string
	addTo     string
	jsonOut   bool
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate <request>",
		Short: "Generate a rule from a plain-language request",
		Long: `Send a plain-language request to the rule generation service (rulegen_url)
together with the entity data and existing rules, and print the rule it proposes.

The returned rule is validated locally against the data. Remarks from the service
are shown as advisory. Only a locally valid rule is added with --add-to. Exits
with code 1 when no valid rule was produced.`,
		Example: `  ruleforge rules generate "T1 and T2 must always run together" --data entities.json

  ruleforge rules generate "Engineering takes at most 3 slots per phase" \
    --data entities.json --rules rules.yaml --add-to rules.yaml`,
		Args: shared.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.dataPath, "data", "", "Entities document the rule refers to (required)")
	cmd.Flags().StringVarP(&opts.rulesPath, "rules", "r", "", "Existing rules sent as context")
	cmd.Flags().StringVar(&opts.addTo, "add-to", "", "Append the rule to this rules document when valid")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output the result as JSON")
	return cmd
}

func runGenerate(cmd *cobra.Command, request string, opts *generateOptions) error {
	if err := shared.RequireFlags(cmd, "data"); err != nil {
		return err
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

	var gen assist.Generation
	step := progress.StepInfo{Name: "generate rule", Number: 1, TotalSteps: 1}
	if err := rt.Progress.Run(step, func() error {
		var err error
		gen, err = rt.RuleClient().Generate(cmd.Context(), strings.TrimSpace(request), ents, existing)
		return err
	}); err != nil {
		return rt.ServiceError("rule generation", "rulegen_url", err)
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		if err := shared.WriteJSON(out, gen); err != nil {
			return err
		}
	} else {
		printGeneration(out, gen)
	}

	if !gen.Accepted() {
		return shared.NewExitError(shared.ExitValidationFailed)
	}
	if opts.addTo != "" {
		if err := workspace.AppendRule(opts.addTo, gen.Rule); err != nil {
			return shared.SaveError(opts.addTo, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s added %s to %s\n", shared.Green(shared.PassMark), gen.Rule.Meta().ID, opts.addTo)
	}
	return nil
}

func printGeneration(w io.Writer, gen assist.Generation) {
	if !gen.Success || gen.Rule == nil {
		fmt.Fprintf(w, "%s no rule generated: %s\n", shared.Red(shared.FailMark), gen.Error)
		return
	}
	fmt.Fprintf(w, "%s %s\n", shared.Bold("Confidence:"), fmt.Sprintf("%.0f%%", gen.Confidence*100))
	if gen.Reasoning != "" {
		fmt.Fprintf(w, "%s %s\n", shared.Bold("Reasoning:"), gen.Reasoning)
	}
	for _, issue := range gen.Issues {
		fmt.Fprintf(w, "  %s %s\n", shared.Yellow("!"), issue)
	}
	fmt.Fprintln(w)
	shared.PrintRuleResult(w, gen.Rule, gen.Validation)
	fmt.Fprintln(w)
	_ = shared.WriteJSON(w, gen.Rule)
}
