package ui

import "golang.org/x/term"

// IsTTY reports whether fd is a terminal. Progress goes live on a terminal
// stderr and listings are styled on a terminal stdout.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// TermWidth returns the column count of the terminal on fd. It returns 0 when
// fd is not a terminal, leaving the presenter on its default widths.
func TermWidth(fd uintptr) int {
	cols, _, err := term.GetSize(int(fd))
	if err != nil || cols < 0 {
		return 0
	}
	return cols
}
