package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is how results reach the terminal.
type OutputMode int

const (
	// OutputModePlain writes unstyled text (pipes, files, dumb terminals).
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes lipgloss-styled text without taking over the terminal.
	OutputModeStyled
	// OutputModeInteractive runs the full-screen browser.
	OutputModeInteractive
)

// String names the mode for logs.
func (m OutputMode) String() string {
	switch m {
	case OutputModePlain:
		return "plain"
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// DetectOutputMode picks a mode from the flags and the environment. plain
// and noColor force plain output; noInteractive stops at styled output.
func DetectOutputMode(plain, noColor, noInteractive bool) OutputMode {
	if plain || noColor || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	if !IsTerminal(os.Stdout) {
		return OutputModePlain
	}
	if noInteractive || os.Getenv("CI") != "" || !IsTerminal(os.Stdin) {
		return OutputModeStyled
	}
	return OutputModeInteractive
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of stdout, or fallback when unknown.
func TerminalWidth(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
