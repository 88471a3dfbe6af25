package hunk

// Mergeable reports whether next starts within n lines of the end of prev on
// either side, in which case the two hunks share their context window.
func Mergeable(prev, next Hunk, n int) bool {
	return next.SourceStart <= prev.SourceEnd()+n || next.DestStart <= prev.DestEnd()+n
}

// Expand adds up to n lines of context around each of the minimal hunks and
// merges hunks whose context windows touch. base and head are the complete
// old and new file contents, one entry per line. Context is truncated at the
// file boundaries, and leading context never reaches back into the trailing
// context of the previous hunk. With n <= 0 the hunks are returned as given.
func Expand(hunks []Hunk, n int, base, head []string) []Hunk {
	if n <= 0 || len(hunks) == 0 {
		return hunks
	}

	var out []Hunk
	floor := Hunk{SourceStart: 1, DestStart: 1}
	group := []Hunk{hunks[0]}
	for _, h := range hunks[1:] {
		if Mergeable(group[len(group)-1], h, n) {
			group = append(group, h)
			continue
		}
		expanded := expandGroup(group, n, floor, base, head)
		out = append(out, expanded)
		floor = Hunk{SourceStart: expanded.SourceEnd(), DestStart: expanded.DestEnd()}
		group = []Hunk{h}
	}
	return append(out, expandGroup(group, n, floor, base, head))
}

// expandGroup builds one hunk out of a run of mergeable hunks. Leading context
// starts no earlier than the starts of floor.
func expandGroup(group []Hunk, n int, floor Hunk, base, head []string) Hunk {
	first := group[0]
	srcLead := max(min(n, first.SourceStart-floor.SourceStart), 0)
	dstLead := max(min(n, first.DestStart-floor.DestStart), 0)

	out := Hunk{
		SourceStart: max(first.SourceStart-srcLead, 1),
		DestStart:   max(first.DestStart-dstLead, 1),
	}
	out.SourceLines = appendContext(out.SourceLines, base, out.SourceStart, srcLead)
	out.DestLines = appendContext(out.DestLines, head, out.DestStart, dstLead)

	srcEnd, dstEnd := first.SourceStart, first.DestStart
	for _, h := range group {
		out.SourceLines = appendContext(out.SourceLines, base, srcEnd, h.SourceStart-srcEnd)
		out.DestLines = appendContext(out.DestLines, head, dstEnd, h.DestStart-dstEnd)
		out.SourceLines = append(out.SourceLines, h.SourceLines...)
		out.DestLines = append(out.DestLines, h.DestLines...)
		srcEnd, dstEnd = h.SourceEnd(), h.DestEnd()
	}

	out.SourceLines = appendContext(out.SourceLines, base, srcEnd, trailing(n, srcEnd, len(base)))
	out.DestLines = appendContext(out.DestLines, head, dstEnd, trailing(n, dstEnd, len(head)))
	return out
}

// trailing is the number of context lines available after end, at most n.
// end may point past the last line, e.g. after a deletion at end of file.
func trailing(n, end, length int) int {
	return max(min(n, length-end+1), 0)
}

// appendContext appends count context lines of content starting at the
// 1-based line number from.
func appendContext(dst []Line, content []string, from, count int) []Line {
	for k := 0; k < count; k++ {
		dst = append(dst, NewLine(Context, lineAt(content, from+k)))
	}
	return dst
}

func lineAt(content []string, lineno int) string {
	if lineno < 1 || lineno > len(content) {
		return ""
	}
	return content[lineno-1]
}
