package render

import (
	"context"
	"errors"
	"strings"

	"github.com/fatih/color"

	"github.com/sokinpui/webrev/hunk"
	"github.com/sokinpui/webrev/internal/source"
	"github.com/sokinpui/webrev/model"
)

// EOFMarker ends both panes of the frames view.
const EOFMarker = "--- EOF ---"

// Frames is the whole old and new file laid out as two aligned panes. Changed
// rows line up with blank fillers so both panes scroll together.
type Frames struct {
	Rows []Row
	// Hunks holds the row index at which each hunk starts.
	Hunks []int
	// HeadLines holds the head line number each hunk starts at.
	HeadLines []int

	numWidth int
}

// Frames builds the frames view of the file at index from its minimal hunks
// and both full contents.
func (r *Renderer) Frames(ctx context.Context, index int) (*Frames, error) {
	file, err := r.cache.File(index)
	if err != nil {
		return nil, err
	}
	hunks, err := r.cache.Hunks(index)
	if err != nil {
		return nil, err
	}
	base, err := r.side(ctx, file, index, model.Base)
	if err != nil {
		return nil, err
	}
	head, err := r.side(ctx, file, index, model.Head)
	if err != nil {
		return nil, err
	}
	return BuildFrames(hunks, base, head), nil
}

// side returns the content of one side, empty when the file does not exist
// there.
func (r *Renderer) side(ctx context.Context, file model.FileDiff, index int, side model.Side) ([]string, error) {
	lines, err := r.cache.Lines(ctx, index, side)
	if errors.Is(err, source.ErrNoContent) && !hasSide(file, side) {
		return nil, nil
	}
	return lines, err
}

func hasSide(file model.FileDiff, side model.Side) bool {
	if side == model.Base {
		return file.Status.HasBase()
	}
	return file.Status.HasHead()
}

// BuildFrames aligns base and head around the minimal hunks.
func BuildFrames(hunks []hunk.Hunk, base, head []string) *Frames {
	f := &Frames{numWidth: digits(max(len(base), len(head)))}
	src, dst := 1, 1
	for _, h := range hunks {
		f.unchanged(base, head, &src, &dst, h.SourceStart, h.DestStart)

		f.Hunks = append(f.Hunks, len(f.Rows))
		f.HeadLines = append(f.HeadLines, h.DestStart)
		f.Rows = append(f.Rows, segment{
			changed:  true,
			srcStart: h.SourceStart,
			dstStart: h.DestStart,
			src:      h.SourceLines,
			dst:      h.DestLines,
		}.rows(hunk.Classify(h))...)
		src, dst = h.SourceEnd(), h.DestEnd()
	}
	f.unchanged(base, head, &src, &dst, len(base)+1, len(head)+1)
	return f
}

// unchanged adds the rows of the lines before srcStop and dstStop. Both sides
// advance together; a side still short of its stop afterwards means the
// contents disagree with the patch, and its lines are added unpaired.
func (f *Frames) unchanged(base, head []string, src, dst *int, srcStop, dstStop int) {
	for *src < srcStop && *dst < dstStop {
		f.Rows = append(f.Rows, Row{
			Left:  &Cell{No: *src, Text: lineText(base, *src)},
			Right: &Cell{No: *dst, Text: lineText(head, *dst)},
		})
		*src++
		*dst++
	}
	for ; *src < srcStop; *src++ {
		f.Rows = append(f.Rows, Row{Left: &Cell{No: *src, Text: lineText(base, *src)}})
	}
	for ; *dst < dstStop; *dst++ {
		f.Rows = append(f.Rows, Row{Right: &Cell{No: *dst, Text: lineText(head, *dst)}})
	}
}

func lineText(content []string, lineno int) string {
	if lineno < 1 || lineno > len(content) {
		return ""
	}
	return content[lineno-1]
}

// Pane renders one side, width columns wide, ending with EOFMarker. Both
// panes have the same number of lines.
func (f *Frames) Pane(side model.Side, width int) []string {
	lines := make([]string, 0, len(f.Rows)+1)
	for _, row := range f.Rows {
		c := row.Left
		if side == model.Head {
			c = row.Right
		}
		var tc *color.Color
		if row.Changed {
			tc = kindColor(row.Kind)
		}
		lines = append(lines, cell(c, f.numWidth, width, tc))
	}
	return append(lines, separatorColor.Sprint(fit(EOFMarker, width)))
}

// String renders both panes next to each other.
func (f *Frames) String(width int) string {
	pane := paneWidth(width)
	left, right := f.Pane(model.Base, pane), f.Pane(model.Head, pane)
	sep := separatorColor.Sprint(" │ ")

	var b strings.Builder
	for i := range left {
		b.WriteString(strings.TrimRight(left[i]+sep+right[i], " ") + "\n")
	}
	return b.String()
}

// HunkAt returns the index of the last hunk starting at or before row, or -1.
func (f *Frames) HunkAt(row int) int {
	at := -1
	for i, start := range f.Hunks {
		if start > row {
			break
		}
		at = i
	}
	return at
}
