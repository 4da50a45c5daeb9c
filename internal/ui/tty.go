package ui

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether stderr is attached to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// TerminalWidth returns the current terminal width, or a sane default
// when it cannot be determined (not a TTY, or the ioctl fails).
func TerminalWidth() int {
	const fallback = 80
	if !IsTTY() {
		return fallback
	}
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
