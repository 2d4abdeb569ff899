package ui

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd)) //nolint:gosec // G115: fd values are small non-negative integers
}

// IsTTY reports whether fd is a terminal that can take styled output.
// NO_COLOR and TERM=dumb turn styling off even on a terminal.
func IsTTY(fd uintptr) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return IsTerminal(fd)
}

// TermWidth returns the terminal width in columns, or 80 if it cannot be determined.
func TermWidth(fd uintptr) int {
	w, _, err := term.GetSize(int(fd)) //nolint:gosec // G115: fd values are small non-negative integers
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
