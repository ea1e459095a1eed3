package config

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/cli/shared"
	cfgpkg "github.com/ruleforge/ruleforge/internal/config"
	apperrors "github.com/ruleforge/ruleforge/internal/errors"
)

func newSetCmd() *cobra.Command {
	var project bool
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in the user or project config.

By default the value goes to the user config (~/.ruleforge/config.json). Use
--project to write the file named by --config instead. The value is validated
against the key's type; other keys in the file are kept.`,
		Example: `  # Point at the header mapping service
  ruleforge config set mapping_url https://map.example.com/v1/map

  # Project-level YAML export
  ruleforge config set output_format yaml --project`,
		Args: shared.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := targetPath(cmd, project)
			if err != nil {
				return err
			}
			if err := cfgpkg.SetConfigValue(path, args[0], args[1]); err != nil {
				var unknown cfgpkg.ErrUnknownKey
				if errors.As(err, &unknown) {
					return apperrors.NewArgumentError(err.Error(), "Run 'ruleforge config keys' to list the valid keys")
				}
				return apperrors.WrapWithMessage(err, apperrors.Configuration, "cannot set "+args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s set %s = %s in %s\n", shared.Green(shared.PassMark), args[0], args[1], path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&project, "project", false, "Write the project config (--config) instead of the user config")
	return cmd
}

func targetPath(cmd *cobra.Command, project bool) (string, error) {
	if project {
		path, _ := cmd.Flags().GetString("config")
		return path, nil
	}
	path, err := cfgpkg.UserConfigPath()
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.Configuration)
	}
	return path, nil
}
