package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is how holdings are presented on stdout.
type OutputMode int

// Output modes.
const (
	// OutputModePlain is unstyled text.
	OutputModePlain OutputMode = iota
	// OutputModeStyled is colored text printed once.
	OutputModeStyled
	// OutputModeInteractive is the full-screen Bubble Tea view.
	OutputModeInteractive
)

func (m OutputMode) String() string {
	switch m {
	case OutputModeInteractive:
		return "interactive"
	case OutputModeStyled:
		return "styled"
	default:
		return "plain"
	}
}

// fallbackTerminalWidth is used when stdout is not a terminal.
const fallbackTerminalWidth = 120

// terminal describes the environment output mode detection looks at.
type terminal struct {
	isTTY  bool
	getenv func(string) string
}

// DetectOutputMode picks the output mode for stdout.
//
// plain and TERM=dumb force plain text. Without a terminal the output is plain
// unless forceColor is set and colors are allowed. A terminal under CI gets styled
// output instead of the interactive view. --no-color and NO_COLOR only switch off
// colors: a terminal still gets the interactive view, rendered with plain styles.
func DetectOutputMode(forceColor, noColor, plain bool) OutputMode {
	return detectOutputMode(terminal{
		isTTY:  term.IsTerminal(int(os.Stdout.Fd())), //nolint:gosec // Fd fits in int on supported platforms.
		getenv: os.Getenv,
	}, forceColor, noColor, plain)
}

// ColorDisabled reports whether --no-color or NO_COLOR turns colors off.
func ColorDisabled(noColor bool) bool {
	return colorDisabled(os.Getenv, noColor)
}

func colorDisabled(getenv func(string) string, noColor bool) bool {
	return noColor || getenv("NO_COLOR") != ""
}

func detectOutputMode(t terminal, forceColor, noColor, plain bool) OutputMode {
	if plain || t.getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	noColor = colorDisabled(t.getenv, noColor)
	if !t.isTTY || t.getenv("CI") != "" {
		if noColor || (!t.isTTY && !forceColor) {
			return OutputModePlain
		}
		return OutputModeStyled
	}
	return OutputModeInteractive
}

// TerminalWidth returns the width of stdout, or a default when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd())) //nolint:gosec // Fd fits in int on supported platforms.
	if err != nil || width <= 0 {
		return fallbackTerminalWidth
	}
	return width
}
