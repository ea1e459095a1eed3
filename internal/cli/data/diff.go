package data

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/cli/shared"
	"github.com/ruleforge/ruleforge/internal/entity"
	apperrors "github.com/ruleforge/ruleforge/internal/errors"
	"github.com/ruleforge/ruleforge/internal/session"
)

type diffOptions struct {
	jsonOut  bool
	validate bool
}

type diffChange struct {
	Cell   string      `json:"cell"`
	Column string      `json:"column"`
	Before entity.Cell `json:"before"`
	After  entity.Cell `json:"after"`
}

type diffReport struct {
	Summary session.Summary   `json:"summary"`
	Changes []diffChange      `json:"changes"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func newDiffCmd() *cobra.Command {
	opts := &diffOptions{}
	cmd := &cobra.Command{
		Use:   "diff <original-file> <edited-file>",
		Short: "Show cells changed between two entity documents",
		Long: `Compare an edited entities document with the original it was made from.

Cells are compared by position, so both documents must keep the same headers.
Values compare strictly: the number 3 and the string "3" differ. Cells removed in
the edited document are reported with an empty value.

With --validate the edited data is validated and errors on changed cells are shown.`,
		Example: `  # List changed cells
  ruleforge diff entities.json entities.edited.json

  # Also validate the edited cells
  ruleforge diff entities.json entities.edited.json --validate`,
		Args: shared.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args[0], args[1], opts)
		},
	}
	cmd.GroupID = shared.GroupData
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output the result as JSON")
	cmd.Flags().BoolVar(&opts.validate, "validate", false, "Validate the edited data")
	return cmd
}

func runDiff(cmd *cobra.Command, originalPath, editedPath string, opts *diffOptions) error {
	if _, err := shared.Setup(cmd); err != nil {
		return err
	}

	original, err := shared.LoadEntities(originalPath)
	if err != nil {
		return err
	}
	edited, err := shared.LoadEntities(editedPath)
	if err != nil {
		return err
	}

	s := session.New()
	s.Initialize(original)
	if err := applyEdits(s, original, edited); err != nil {
		return err
	}

	changes := s.Diff()
	report := diffReport{Summary: s.Summary(), Changes: make([]diffChange, 0, len(changes))}
	for _, c := range changes {
		report.Changes = append(report.Changes, diffChange{
			Cell:   c.Key.String(),
			Column: columnName(edited, c.Key),
			Before: c.Before,
			After:  c.After,
		})
	}

	var onChanged entity.ErrorMap
	if opts.validate {
		cellErrs, _, err := s.Validate(cmd.Context())
		if err != nil {
			return err
		}
		onChanged = entity.ErrorMap{}
		for _, c := range changes {
			if msg, ok := cellErrs[c.Key]; ok {
				onChanged[c.Key] = msg
			}
		}
		report.Errors = onChanged.Flat()
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		if err := shared.WriteJSON(out, report); err != nil {
			return err
		}
	} else {
		printDiff(out, edited, changes, report.Summary, onChanged)
	}

	if len(onChanged) > 0 {
		return shared.NewExitError(shared.ExitValidationFailed)
	}
	return nil
}

// applyEdits replays every cell of edited onto the session. Cells present only in
// original are cleared.
func applyEdits(s *session.Session, original, edited entity.Entities) error {
	for _, t := range entity.Types() {
		ot, et := original.Table(t), edited.Table(t)
		if !sameHeaders(ot.Headers, et.Headers) {
			return apperrors.NewArgumentError(
				fmt.Sprintf("%s headers differ between the documents", t),
				"diff compares cells by position; keep the header row unchanged",
			)
		}
		rows := max(len(ot.Rows), len(et.Rows))
		for r := 0; r < rows; r++ {
			cols := max(rowLen(ot, r), rowLen(et, r))
			for c := 0; c < cols; c++ {
				if err := s.UpdateCell(t, r, c, et.Value(r, c)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func rowLen(t *entity.Table, r int) int {
	if r < len(t.Rows) {
		return len(t.Rows[r])
	}
	return 0
}

func sameHeaders(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func columnName(e entity.Entities, k entity.CellKey) string {
	tbl := e.Table(k.Entity)
	if k.Column < len(tbl.Headers) {
		return tbl.Headers[k.Column]
	}
	return ""
}

func printDiff(w io.Writer, edited entity.Entities, changes []session.Change, sum session.Summary, onChanged entity.ErrorMap) {
	if sum.Total == 0 {
		fmt.Fprintf(w, "%s no cells changed\n", shared.Green(shared.PassMark))
		return
	}
	for _, c := range changes {
		fmt.Fprintf(w, "  %s: %s -> %s\n", shared.CellLabel(edited, c.Key),
			shared.Dim(formatCell(c.Before)), shared.Cyan(formatCell(c.After)))
		if msg, ok := onChanged[c.Key]; ok {
			fmt.Fprintf(w, "      %s %s\n", shared.Red(shared.FailMark), msg)
		}
	}
	fmt.Fprintf(w, "\n%s: %d clients, %d workers, %d tasks\n",
		shared.Bold(shared.Plural(sum.Total, "changed cell")), sum.Clients, sum.Workers, sum.Tasks)
}

func formatCell(c entity.Cell) string {
	if c == nil {
		return "(empty)"
	}
	if s, ok := c.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return entity.CellString(c)
}
