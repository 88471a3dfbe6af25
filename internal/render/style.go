package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/sokinpui/webrev/hunk"
)

var (
	fileColor      = color.New(color.Bold)
	hunkColor      = color.New(color.FgCyan)
	removedColor   = color.New(color.FgRed)
	addedColor     = color.New(color.FgGreen)
	changedColor   = color.New(color.FgYellow)
	lineNoColor    = color.New(color.Faint)
	statusColor    = color.New(color.FgMagenta, color.Bold)
	separatorColor = color.New(color.Faint)
)

const tabWidth = 4

// roleColor colors a unified-diff line by its role. Context stays plain.
func roleColor(r hunk.Role) *color.Color {
	switch r {
	case hunk.Removed:
		return removedColor
	case hunk.Added:
		return addedColor
	default:
		return nil
	}
}

// kindColor colors the changed rows of a hunk by its classification.
func kindColor(k hunk.Kind) *color.Color {
	switch k {
	case hunk.PureAddition:
		return addedColor
	case hunk.PureDeletion:
		return removedColor
	default:
		return changedColor
	}
}

func paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

// fit expands tabs and truncates or pads s to exactly width terminal columns.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// digits is the width of the decimal form of n.
func digits(n int) int {
	w := 1
	for n >= 10 {
		n /= 10
		w++
	}
	return w
}
