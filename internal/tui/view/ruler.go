package view

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// RulerMark is a label placed at a column of the time axis.
type RulerMark struct {
	Col   int
	Label string
}

// RenderRuler lays out marks on a plain line cells wide. A mark that would
// overlap the previous label or run past the end is dropped.
func RenderRuler(marks []RulerMark, cells int) string {
	if cells <= 0 {
		return ""
	}
	line := []rune(strings.Repeat(" ", cells))
	next := 0
	for _, m := range marks {
		w := ansi.StringWidth(m.Label)
		if m.Col < next || m.Col < 0 || m.Col+w > cells {
			continue
		}
		copy(line[m.Col:], []rune(m.Label))
		next = m.Col + w + 1
	}
	return string(line)
}
