// Package components provides ANSI-aware text primitives and the block
// glyphs used to draw the clock.
package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// VisibleLen returns the visible character width of s in terminal cells.
// ANSI escape sequences are ignored and wide characters count as two.
func VisibleLen(s string) int {
	return ansi.StringWidth(s)
}

// BlockWidth returns the widest visible line of a multi-line block.
func BlockWidth(lines []string) int {
	w := 0
	for _, l := range lines {
		if n := VisibleLen(l); n > w {
			w = n
		}
	}
	return w
}

// Truncate cuts s to at most maxWidth visible characters, keeping any
// escape sequences before the cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return ansi.Truncate(s, maxWidth, "")
}

// PadCenter centers s within width. Odd padding puts the extra space on
// the right. Wider strings are returned unchanged.
func PadCenter(s string, width int) string {
	vis := VisibleLen(s)
	if vis >= width {
		return s
	}
	total := width - vis
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}
