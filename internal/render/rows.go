package render

import "github.com/sokinpui/webrev/hunk"

// segment is a stretch of a hunk that is either shared context or one change:
// a run of removed lines together with the added lines replacing them.
type segment struct {
	changed  bool
	srcStart int
	dstStart int
	src      []hunk.Line
	dst      []hunk.Line
}

// segments splits h into alternating context and change segments.
func segments(h hunk.Hunk) []segment {
	var out []segment
	src, dst := h.SourceLines, h.DestLines
	i, j := 0, 0
	for i < len(src) || j < len(dst) {
		seg := segment{changed: true, srcStart: h.SourceStart + i, dstStart: h.DestStart + j}
		for i < len(src) && src[i].Role() == hunk.Removed {
			seg.src = append(seg.src, src[i])
			i++
		}
		for j < len(dst) && dst[j].Role() == hunk.Added {
			seg.dst = append(seg.dst, dst[j])
			j++
		}
		if len(seg.src) > 0 || len(seg.dst) > 0 {
			out = append(out, seg)
			continue
		}

		seg.changed = false
		for i < len(src) && j < len(dst) && src[i].Role() == hunk.Context && dst[j].Role() == hunk.Context {
			seg.src = append(seg.src, src[i])
			seg.dst = append(seg.dst, dst[j])
			i++
			j++
		}
		if len(seg.src) == 0 {
			// Context on one side only: show what is left as a single change.
			seg.changed = true
			seg.src, seg.dst = src[i:], dst[j:]
			out = append(out, seg)
			break
		}
		out = append(out, seg)
	}
	return out
}

// Cell is one numbered line of a pane.
type Cell struct {
	No   int
	Text string
}

// Row pairs a source line with a destination line. A nil side is a filler
// row keeping the two sides aligned.
type Row struct {
	Left    *Cell
	Right   *Cell
	Changed bool
	Kind    hunk.Kind // classification of the hunk a changed row belongs to
}

// rows lays out seg as aligned rows.
func (seg segment) rows(kind hunk.Kind) []Row {
	rows := make([]Row, max(len(seg.src), len(seg.dst)))
	for k := range rows {
		rows[k].Changed = seg.changed
		rows[k].Kind = kind
		if k < len(seg.src) {
			rows[k].Left = &Cell{No: seg.srcStart + k, Text: seg.src[k].Text()}
		}
		if k < len(seg.dst) {
			rows[k].Right = &Cell{No: seg.dstStart + k, Text: seg.dst[k].Text()}
		}
	}
	return rows
}

// hunkRows lays out all segments of h.
func hunkRows(h hunk.Hunk) []Row {
	kind := hunk.Classify(h)
	var rows []Row
	for _, seg := range segments(h) {
		rows = append(rows, seg.rows(kind)...)
	}
	return rows
}
