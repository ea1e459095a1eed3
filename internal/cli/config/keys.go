package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/cli/shared"
	cfgpkg "github.com/ruleforge/ruleforge/internal/config"
)

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List all available configuration keys",
		Long:  `Display all valid configuration keys with their types, defaults and descriptions.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range cfgpkg.KnownKeyNames() {
				schema := cfgpkg.KnownKeys[name]
				typ := schema.Type.String()
				if len(schema.AllowedValues) > 0 {
					typ = strings.Join(schema.AllowedValues, "|")
				}
				fmt.Fprintf(out, "%-15s %-10s %s %s\n", shared.Cyan(name), typ, schema.Description,
					shared.Dim(fmt.Sprintf("(default %v)", formatDefault(schema.Default))))
			}
			return nil
		},
	}
}

func formatDefault(v any) string {
	if s, ok := v.(string); ok && s == "" {
		return `""`
	}
	return fmt.Sprint(v)
}

