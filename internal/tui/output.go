package tui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// OutputMode selects the renderer for browse.
type OutputMode int

const (
	// OutputModeInteractive runs the Bubble Tea browser.
	OutputModeInteractive OutputMode = iota
	// OutputModePlain prints the roster once as text.
	OutputModePlain
)

// DetectOutputMode picks the interactive browser only when out is a real
// terminal that can draw it.
func DetectOutputMode(out io.Writer, forcePlain bool) OutputMode {
	if forcePlain || os.Getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return OutputModeInteractive
	}
	return OutputModePlain
}

// TerminalWidth returns the width of out, or defaultWidth when unknown.
func TerminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok {
		return defaultWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
