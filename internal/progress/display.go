package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Display renders step progress to one writer: a spinner while a step runs on a
// terminal, a plain line otherwise, then a result mark.
type Display struct {
	capabilities TerminalCapabilities
	out          io.Writer
	spinner      *spinner.Spinner
	symbols      Symbols
}

// NewDisplay creates a display that writes status lines to out.
func NewDisplay(caps TerminalCapabilities, out io.Writer) *Display {
	if out == nil {
		out = os.Stderr
	}
	return &Display{
		capabilities: caps,
		out:          out,
		symbols:      SelectSymbols(caps),
	}
}

// Start begins displaying progress for a step
func (d *Display) Start(step StepInfo) error {
	if err := step.Validate(); err != nil {
		return err
	}

	msg := stepLabel(step) + "..."

	if d.capabilities.IsTTY {
		d.StopSpinner()
		d.spinner = spinner.New(
			spinner.CharSets[d.symbols.SpinnerSet],
			100*time.Millisecond,
		)
		d.spinner.Writer = d.out
		d.spinner.Suffix = " " + msg
		d.spinner.Start()
	} else {
		fmt.Fprintln(d.out, msg)
	}
	return nil
}

// Complete stops the spinner and prints the success mark
func (d *Display) Complete(step StepInfo) {
	d.StopSpinner()
	mark := paint(d.symbols.Checkmark, color.FgGreen, d.capabilities.SupportsColor)
	fmt.Fprintf(d.out, "%s %s\n", mark, stepLabel(step))
}

// Fail stops the spinner and prints the failure mark with err
func (d *Display) Fail(step StepInfo, err error) {
	d.StopSpinner()
	mark := paint(d.symbols.Failure, color.FgRed, d.capabilities.SupportsColor)
	fmt.Fprintf(d.out, "%s %s failed: %v\n", mark, stepLabel(step), err)
}

// Run shows step while fn executes and marks it complete or failed.
// It returns fn's error.
func (d *Display) Run(step StepInfo, fn func() error) error {
	if err := d.Start(step); err != nil {
		return err
	}
	if err := fn(); err != nil {
		d.Fail(step, err)
		return err
	}
	d.Complete(step)
	return nil
}

// StopSpinner stops the spinner without showing completion/failure
func (d *Display) StopSpinner() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}

// Steps numbers names as a sequence of StepInfo.
func Steps(names ...string) []StepInfo {
	out := make([]StepInfo, len(names))
	for i, n := range names {
		out[i] = StepInfo{Name: n, Number: i + 1, TotalSteps: len(names), Status: StepPending}
	}
	return out
}
