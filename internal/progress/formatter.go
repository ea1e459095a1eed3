package progress

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// formatStepCounter returns the [N/Total] step counter string
func formatStepCounter(number, total int) string {
	return fmt.Sprintf("[%d/%d]", number, total)
}

// stepLabel renders "[2/3] Map headers".
func stepLabel(step StepInfo) string {
	return formatStepCounter(step.Number, step.TotalSteps) + " " + capitalize(step.Name)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// paint colors a mark. ASCII marks stay plain so logs and pipes read cleanly.
func paint(mark string, attr color.Attribute, enabled bool) string {
	if !enabled || (mark != "✓" && mark != "✗") {
		return mark
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(mark)
}
