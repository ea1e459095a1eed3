package data

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/assist"
	"github.com/ruleforge/ruleforge/internal/cli/shared"
	"github.com/ruleforge/ruleforge/internal/entity"
	apperrors "github.com/ruleforge/ruleforge/internal/errors"
	"github.com/ruleforge/ruleforge/internal/logging"
	"github.com/ruleforge/ruleforge/internal/progress"
	"github.com/ruleforge/ruleforge/internal/workspace"
)

type mapOptions struct {
	entity   string
	outPath  string
	intoPath string
	identity bool
}

func newMapCmd() *cobra.Command {
	opts := &mapOptions{}
	cmd := &cobra.Command{
		Use:   "map <sheet-file>",
		Short: "Map a raw sheet onto the canonical schema",
		Long: `Align the headers of a raw sheet (headers and rows) with the canonical fields
of clients, workers or tasks.

The header-mapping service (mapping_url) classifies the sheet and names the
canonical field behind each header. The sheet is then rebuilt in canonical column
order; canonical fields without a source column are marked unmapped.

Use --identity when the headers already are canonical field names. Use --entity to
override the entity the service detected.`,
		Example: `  # Map and print the canonical table
  ruleforge map clients.raw.json

  # Map into the clients table of an entities document
  ruleforge map export.yaml --entity clients --into entities.yaml

  # Headers already canonical; no service call
  ruleforge map tasks.json --identity --entity tasks --out tasks.mapped.json`,
		Args: shared.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(cmd, args[0], opts)
		},
	}
	cmd.GroupID = shared.GroupData
	cmd.Flags().StringVarP(&opts.entity, "entity", "e", "", "Entity of the sheet: clients, workers or tasks")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "Write the mapped table to this file")
	cmd.Flags().StringVar(&opts.intoPath, "into", "", "Store the mapped table in this entities document")
	cmd.Flags().BoolVar(&opts.identity, "identity", false, "Treat the headers as canonical; skip the mapping service")
	return cmd
}

func runMap(cmd *cobra.Command, path string, opts *mapOptions) error {
	if opts.outPath != "" && opts.intoPath != "" {
		return apperrors.InvalidFlagCombination("--out --into", "choose one destination")
	}
	var forced entity.Type
	if opts.entity != "" {
		t, ok := entity.ParseType(opts.entity)
		if !ok {
			return apperrors.InvalidEntityType(opts.entity)
		}
		forced = t
	}
	if opts.identity && forced == "" {
		return apperrors.NewArgumentError("--identity requires --entity", "Pass --entity clients|workers|tasks")
	}

	rt, err := shared.Setup(cmd)
	if err != nil {
		return err
	}

	raw, err := shared.LoadTable(path)
	if err != nil {
		return err
	}

	var info entity.MappingInfo
	if opts.identity {
		info = assist.IdentityMapping(raw.Headers, "Headers declared canonical")
		info.Confidence = 1
	} else {
		step := progress.StepInfo{Name: "map headers", Number: 1, TotalSteps: 1}
		if err := rt.Progress.Run(step, func() error {
			var err error
			info, err = rt.MappingClient().MapHeaders(cmd.Context(), raw.Headers, raw.Rows)
			return err
		}); err != nil {
			return rt.ServiceError("header mapping", "mapping_url", err)
		}
	}

	if forced != "" {
		if info.Entity != "" && info.Entity != forced {
			logging.Warn("overriding detected entity", "detected", info.Entity, "entity", forced)
		}
		info.Entity = forced
	}
	if info.Entity == "" {
		return apperrors.NewRuntimeError("the mapping service could not identify the entity",
			"Pass --entity clients|workers|tasks")
	}

	mapped, err := assist.ApplyMapping(raw, info)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Runtime)
	}

	summary := cmd.OutOrStdout()
	switch {
	case opts.intoPath != "":
		if err := storeInto(opts.intoPath, info.Entity, mapped); err != nil {
			return err
		}
	case opts.outPath != "":
		if err := workspace.SaveTable(opts.outPath, mapped); err != nil {
			return shared.SaveError(opts.outPath, err)
		}
	default:
		if err := shared.WriteJSON(cmd.OutOrStdout(), mapped); err != nil {
			return err
		}
		summary = cmd.ErrOrStderr()
	}

	printMapping(summary, raw.Headers, info)
	return nil
}

// storeInto replaces one table of the entities document at path, creating it when missing.
func storeInto(path string, t entity.Type, tbl entity.Table) error {
	if _, err := workspace.FormatFor(path); err != nil {
		return apperrors.UnsupportedFormat(path)
	}
	var ents entity.Entities
	if _, err := os.Stat(path); err == nil {
		if ents, err = shared.LoadEntities(path); err != nil {
			return err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return apperrors.Wrap(err, apperrors.Runtime)
	}
	*ents.Table(t) = tbl
	if err := workspace.SaveEntities(path, ents); err != nil {
		return shared.SaveError(path, err)
	}
	return nil
}

func printMapping(w io.Writer, headers []string, info entity.MappingInfo) {
	fmt.Fprintf(w, "%-11s %s %s\n", "Entity:", shared.Bold(info.Entity), shared.Dim(fmt.Sprintf("(confidence %.2f)", info.Confidence)))
	if info.Reasoning != "" {
		fmt.Fprintf(w, "%-11s %s\n", "Reasoning:", info.Reasoning)
	}
	fmt.Fprintln(w, "Headers:")
	for i, h := range headers {
		target := info.MappedHeaders[i]
		if !entity.IsCanonicalField(info.Entity, target) {
			target = shared.Yellow("(unmapped)")
		}
		fmt.Fprintf(w, "  %s -> %s\n", h, target)
	}
}
