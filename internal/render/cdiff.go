package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/sokinpui/webrev/hunk"
	"github.com/sokinpui/webrev/model"
)

// contextRange formats a range of a context-diff hunk: "s,e", a single line
// number, or the line before an empty range.
func contextRange(start, length int) string {
	switch length {
	case 0:
		return fmt.Sprint(start - 1)
	case 1:
		return fmt.Sprint(start)
	default:
		return fmt.Sprintf("%d,%d", start, start+length-1)
	}
}

// segmentMark returns the context-diff marker of seg: "!" when lines are
// replaced, "-" or "+" when they are only removed or only added.
func segmentMark(seg segment, dest bool) (string, *color.Color) {
	switch {
	case !seg.changed:
		return "  ", nil
	case len(seg.src) > 0 && len(seg.dst) > 0:
		return "! ", changedColor
	case dest:
		return "+ ", addedColor
	default:
		return "- ", removedColor
	}
}

// writeContext writes the hunks in context-diff form: the source section of
// each hunk followed by its destination section. A section without changes
// shows only its range.
func writeContext(b *strings.Builder, file model.FileDiff, hunks []hunk.Hunk) {
	oldPath, newPath := patchPaths(file)
	b.WriteString(fileColor.Sprintf("*** %s", oldPath) + "\n")
	b.WriteString(fileColor.Sprintf("--- %s", newPath) + "\n")

	for _, h := range hunks {
		segs := segments(h)
		removed, added := h.Changes()

		b.WriteString(hunkColor.Sprint("***************") + "\n")
		b.WriteString(hunkColor.Sprintf("*** %s ****", contextRange(h.SourceStart, len(h.SourceLines))) + "\n")
		if removed > 0 {
			writeSection(b, segs, false)
		}
		b.WriteString(hunkColor.Sprintf("--- %s ----", contextRange(h.DestStart, len(h.DestLines))) + "\n")
		if added > 0 {
			writeSection(b, segs, true)
		}
	}
}

func writeSection(b *strings.Builder, segs []segment, dest bool) {
	for _, seg := range segs {
		lines := seg.src
		if dest {
			lines = seg.dst
		}
		mark, c := segmentMark(seg, dest)
		for _, l := range lines {
			b.WriteString(paint(c, mark+l.Text()) + "\n")
		}
	}
}
