package rules

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/cli/shared"
	rulepkg "github.com/ruleforge/ruleforge/internal/rules"
)

type typeInfo struct {
	Type        rulepkg.Type `json:"type"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
}

func newTypesCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the supported rule types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := make([]typeInfo, 0, len(rulepkg.Types()))
			for _, t := range rulepkg.Types() {
				infos = append(infos, typeInfo{Type: t, Name: rulepkg.DisplayName(t), Description: rulepkg.Description(t)})
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				return shared.WriteJSON(out, infos)
			}
			for _, info := range infos {
				fmt.Fprintf(out, "  %-20s %s\n", shared.Cyan(info.Type), info.Name)
				fmt.Fprintf(out, "  %-20s %s\n", "", shared.Dim(info.Description))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
