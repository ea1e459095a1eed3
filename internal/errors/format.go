package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	categoryColor    = color.New(color.FgRed, color.Bold)
	usageColor       = color.New(color.FgCyan)
	remediationColor = color.New(color.FgYellow)
)

// FormatError renders a CLIError with colors.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return format(err, true)
}

// FormatErrorPlain renders a CLIError without ANSI escape codes.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return format(err, false)
}

func format(err *CLIError, colored bool) string {
	paint := func(c *color.Color, s string) string {
		if !colored {
			return s
		}
		return c.Sprint(s)
	}

	var b strings.Builder
	b.WriteString(paint(categoryColor, err.Category.String()+":"))
	b.WriteString(" ")
	b.WriteString(err.Message)
	b.WriteString("\n")

	if err.Usage != "" {
		b.WriteString("\n")
		b.WriteString(paint(usageColor, "Usage:"))
		b.WriteString(" ")
		b.WriteString(err.Usage)
		b.WriteString("\n")
	}

	if len(err.Remediation) > 0 {
		b.WriteString("\n")
		b.WriteString(paint(remediationColor, "To fix this:"))
		b.WriteString("\n")
		for _, step := range err.Remediation {
			fmt.Fprintf(&b, "  - %s\n", step)
		}
	}
	return b.String()
}

// PrintError writes err to stderr.
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err)
}

// FprintError writes err to w. Colors follow fatih/color's NoColor detection.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	if color.NoColor {
		fmt.Fprint(w, FormatErrorPlain(err))
		return
	}
	fmt.Fprint(w, FormatError(err))
}

// FormatSimpleError renders any error under the given category heading.
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return FormatError(cliErr)
	}
	return FormatError(&CLIError{Category: category, Message: err.Error()})
}
