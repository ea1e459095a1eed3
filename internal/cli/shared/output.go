package shared

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ruleforge/ruleforge/internal/entity"
	"github.com/ruleforge/ruleforge/internal/rules"
)

// Color helpers for reports. They honor color.NoColor at call time.
var (
	Green  = color.New(color.FgGreen).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
	Dim    = color.New(color.Faint).SprintFunc()
)

// Marks used in reports.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Plural renders "1 error" / "2 errors".
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// CellLabel renders a cell position as "clients row 3, PriorityLevel". Rows are
// shown 1-based.
func CellLabel(e entity.Entities, k entity.CellKey) string {
	column := fmt.Sprintf("column %d", k.Column+1)
	if tbl := e.Table(k.Entity); tbl != nil && k.Column >= 0 && k.Column < len(tbl.Headers) {
		column = tbl.Headers[k.Column]
	}
	return fmt.Sprintf("%s row %d, %s", k.Entity, k.Row+1, column)
}

// PrintRuleResult writes one rule's validation verdict followed by its errors.
func PrintRuleResult(w io.Writer, r rules.Rule, res rules.Result) {
	b := r.Meta()
	label := fmt.Sprintf("%s %s (%s)", b.ID, b.Name, rules.DisplayName(r.Kind()))
	if !b.Enabled {
		label += Dim(" [disabled]")
	}
	if res.IsValid {
		fmt.Fprintf(w, "  %s %s\n", Green(PassMark), label)
		return
	}
	fmt.Fprintf(w, "  %s %s\n", Red(FailMark), label)
	for _, e := range res.Errors {
		fmt.Fprintf(w, "      - %s\n", e)
	}
}
