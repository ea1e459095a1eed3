package rules

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/cli/shared"
	apperrors "github.com/ruleforge/ruleforge/internal/errors"
	"github.com/ruleforge/ruleforge/internal/logging"
	rulepkg "github.com/ruleforge/ruleforge/internal/rules"
	"github.com/ruleforge/ruleforge/internal/workspace"
)

type exportOptions struct {
	outPath  string
	format   string
	version  string
	dataPath string
}

func newExportCmd() *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export <rules-file>",
		Short: "Export rules as a versioned configuration",
		Long: `Export a rules document as a rules configuration: a version, the rules ordered
by descending priority (ties keep their order), and metadata with timestamps and
total and enabled rule counts.

Invalid and disabled rules are exported too. With --data each rule is validated
first and invalid rules are reported as warnings.

The format comes from --format, else the --out extension, else output_format.`,
		Example: `  # Print the configuration as JSON
  ruleforge rules export rules.yaml

  # Write YAML with a custom version
  ruleforge rules export rules.json --out rules-config.yaml --version 2.0.0`,
		Args: shared.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "Write the configuration to this file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: json or yaml")
	cmd.Flags().StringVar(&opts.version, "version", "", "Configuration version (default rules_version)")
	cmd.Flags().StringVar(&opts.dataPath, "data", "", "Entities document to validate the rules against")
	return cmd
}

func runExport(cmd *cobra.Command, path string, opts *exportOptions) error {
	rt, err := shared.Setup(cmd)
	if err != nil {
		return err
	}

	format, err := exportFormat(opts, rt.Config.OutputFormat)
	if err != nil {
		return err
	}

	list, err := shared.LoadRules(path)
	if err != nil {
		return err
	}

	if opts.dataPath != "" {
		ents, err := shared.LoadEntities(opts.dataPath)
		if err != nil {
			return err
		}
		for _, r := range list {
			if res := rulepkg.Validate(r, ents); !res.IsValid {
				logging.Warn("exporting invalid rule", "id", r.Meta().ID, "errors", res.Errors)
			}
		}
	}

	version := opts.version
	if version == "" {
		version = rt.Config.RulesVersion
	}
	cfg := rulepkg.GenerateConfig(list)
	cfg.Version = version

	data, err := workspace.EncodeConfig(cfg, format)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Runtime)
	}
	if opts.outPath == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := workspace.WriteFile(opts.outPath, data); err != nil {
		return shared.SaveError(opts.outPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s exported %s (%d enabled) to %s\n", shared.Green(shared.PassMark),
		shared.Plural(cfg.Metadata.TotalRules, "rule"), cfg.Metadata.EnabledRules, opts.outPath)
	return nil
}

func exportFormat(opts *exportOptions, fallback string) (workspace.Format, error) {
	switch {
	case opts.format != "":
		f, err := workspace.ParseFormat(opts.format)
		if err != nil {
			return "", apperrors.UnsupportedFormat(opts.format)
		}
		return f, nil
	case opts.outPath != "":
		f, err := workspace.FormatFor(opts.outPath)
		if err != nil {
			return "", apperrors.UnsupportedFormat(opts.outPath)
		}
		return f, nil
	default:
		return workspace.ParseFormat(fallback)
	}
}
