package tui

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether stdout is a terminal the timer can take over.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
