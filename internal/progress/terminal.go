package progress

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ASCIIEnv forces ASCII symbols when set to "1".
const ASCIIEnv = "RULEFORGE_ASCII"

// DetectTerminalCapabilities inspects the writer progress goes to. Only an *os.File
// attached to a terminal gets a spinner; NO_COLOR, TERM=dumb and ASCIIEnv narrow
// what that terminal is sent.
func DetectTerminalCapabilities(w io.Writer) TerminalCapabilities {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return TerminalCapabilities{}
	}

	dumb := os.Getenv("TERM") == "dumb"
	return TerminalCapabilities{
		IsTTY:           true,
		SupportsColor:   !dumb && os.Getenv("NO_COLOR") == "",
		SupportsUnicode: !dumb && os.Getenv(ASCIIEnv) != "1",
	}
}

// Plain returns capabilities for --plain output: no spinner, no color, ASCII only.
func Plain() TerminalCapabilities {
	return TerminalCapabilities{}
}

// SelectSymbols returns the symbol set for caps.
func SelectSymbols(caps TerminalCapabilities) Symbols {
	if !caps.SupportsUnicode {
		return Symbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9}
	}
	return Symbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14}
}
