package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Truncate cuts s to at most width terminal cells, ending with "...".
func Truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// PadRight pads s with spaces to width terminal cells.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
