package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/sokinpui/webrev/hunk"
	"github.com/sokinpui/webrev/model"
)

// minPane is the narrowest pane the two-column views lay out.
const minPane = 20

// paneWidth splits width into two panes around a three-column gutter.
func paneWidth(width int) int {
	return max((width-3)/2, minPane)
}

// cell formats c as a numbered pane line of exactly width columns, the text
// painted with tc. A nil cell is a blank filler.
func cell(c *Cell, numWidth, width int, tc *color.Color) string {
	if c == nil {
		return strings.Repeat(" ", width)
	}
	no := fmt.Sprintf("%*d ", numWidth, c.No)
	return lineNoColor.Sprint(no) + paint(tc, fit(c.Text, width-len(no)))
}

// gutter is the marker between the panes of a row, like sdiff(1) prints it.
func gutter(row Row) string {
	switch {
	case !row.Changed:
		return "   "
	case row.Left != nil && row.Right != nil:
		return changedColor.Sprint(" | ")
	case row.Left != nil:
		return removedColor.Sprint(" < ")
	default:
		return addedColor.Sprint(" > ")
	}
}

func writeSideBySide(b *strings.Builder, file model.FileDiff, hunks []hunk.Hunk, width int) {
	pane := paneWidth(width)
	numWidth := 1
	for _, h := range hunks {
		numWidth = max(numWidth, digits(h.SourceEnd()), digits(h.DestEnd()))
	}

	b.WriteString(fileColor.Sprint(fileTitle(file)) + "\n")
	for _, h := range hunks {
		b.WriteString(hunkColor.Sprint(hunk.Header(h)) + "\n")
		for _, row := range hunkRows(h) {
			var lc, rc *color.Color
			if row.Changed {
				lc, rc = removedColor, addedColor
			}
			line := cell(row.Left, numWidth, pane, lc) + gutter(row) + cell(row.Right, numWidth, pane, rc)
			b.WriteString(strings.TrimRight(line, " ") + "\n")
		}
	}
}
