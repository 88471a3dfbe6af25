// Package hunk models the changed regions of a unified diff.
//
// A patch is parsed once into minimal hunks, which carry only the removed and
// added lines of each change. Views that want surrounding lines ask Expand for
// a copy with n lines of context, merging hunks that end up closer than n lines
// apart. Both forms share the Hunk type:
//
//	minimal, err := hunk.Parse(patch)
//	expanded := hunk.Expand(minimal, 5, baseLines, headLines)
//
// Every function in this package is pure; values are never mutated after they
// are returned.
package hunk

import (
	"fmt"
	"strings"
)

// Role is the part a line plays in a hunk.
type Role int

const (
	Context Role = iota
	Removed
	Added
)

func (r Role) String() string {
	switch r {
	case Removed:
		return "removed"
	case Added:
		return "added"
	default:
		return "context"
	}
}

// Prefix returns the one-character marker used for r in a unified diff.
func (r Role) Prefix() byte {
	switch r {
	case Removed:
		return '-'
	case Added:
		return '+'
	default:
		return ' '
	}
}

// Line is a single line of a hunk, stored with its unified-diff prefix.
type Line string

// NewLine prefixes text with the marker for role.
func NewLine(role Role, text string) Line {
	return Line(string(role.Prefix()) + text)
}

// Role reports the role encoded by the line's prefix. Lines without a
// recognized prefix are treated as context.
func (l Line) Role() Role {
	if len(l) == 0 {
		return Context
	}
	switch l[0] {
	case '-':
		return Removed
	case '+':
		return Added
	default:
		return Context
	}
}

// Text returns the line without its prefix.
func (l Line) Text() string {
	if len(l) == 0 {
		return ""
	}
	return string(l[1:])
}

// Hunk is a contiguous change between a source (old) and destination (new)
// file. SourceLines holds context and removed lines, DestLines context and
// added lines. Starts are 1-based line numbers.
type Hunk struct {
	SourceStart int
	SourceLines []Line
	DestStart   int
	DestLines   []Line
}

// SourceEnd is the first source line number past the hunk.
func (h Hunk) SourceEnd() int {
	return h.SourceStart + len(h.SourceLines)
}

// DestEnd is the first destination line number past the hunk.
func (h Hunk) DestEnd() int {
	return h.DestStart + len(h.DestLines)
}

// Changes counts the removed and added lines of h.
func (h Hunk) Changes() (removed, added int) {
	for _, l := range h.SourceLines {
		if l.Role() == Removed {
			removed++
		}
	}
	for _, l := range h.DestLines {
		if l.Role() == Added {
			added++
		}
	}
	return removed, added
}

// Header formats the "@@ -s,l +d,l @@" line for h. An empty side names the
// line before the empty range, which is how git writes it.
func Header(h Hunk) string {
	return fmt.Sprintf("@@ -%s +%s @@", headerRange(h.SourceStart, len(h.SourceLines)), headerRange(h.DestStart, len(h.DestLines)))
}

func headerRange(start, length int) string {
	if length == 0 {
		start--
	}
	return fmt.Sprintf("%d,%d", start, length)
}

// Interleave returns the lines of h in unified order: shared context once,
// then each run of removed lines followed by the added lines replacing it.
func Interleave(h Hunk) []Line {
	out := make([]Line, 0, len(h.SourceLines)+len(h.DestLines))
	src, dst := h.SourceLines, h.DestLines
	i, j := 0, 0
	for i < len(src) || j < len(dst) {
		progressed := false
		for i < len(src) && src[i].Role() == Removed {
			out = append(out, src[i])
			i++
			progressed = true
		}
		for j < len(dst) && dst[j].Role() == Added {
			out = append(out, dst[j])
			j++
			progressed = true
		}
		for i < len(src) && j < len(dst) && src[i].Role() == Context && dst[j].Role() == Context {
			out = append(out, src[i])
			i++
			j++
			progressed = true
		}
		if !progressed {
			// Context left on one side only: the sides disagree, keep what remains.
			out = append(out, src[i:]...)
			out = append(out, dst[j:]...)
			break
		}
	}
	return out
}

// Stats sums the removed and added lines over hunks.
func Stats(hunks []Hunk) (removed, added int) {
	for _, h := range hunks {
		r, a := h.Changes()
		removed += r
		added += a
	}
	return removed, added
}

// String renders h as a unified-diff fragment.
func (h Hunk) String() string {
	var b strings.Builder
	b.WriteString(Header(h))
	b.WriteByte('\n')
	for _, l := range Interleave(h) {
		b.WriteString(string(l))
		b.WriteByte('\n')
	}
	return b.String()
}
