package config

import (
	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/cli/shared"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long:  `Show the configuration after merging every source, as JSON.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := shared.Setup(cmd)
			if err != nil {
				return err
			}
			return shared.WriteJSON(cmd.OutOrStdout(), rt.Config)
		},
	}
}
