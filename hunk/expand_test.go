package hunk_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/webrev/hunk"
)

// numbered returns lines "<prefix>1" .. "<prefix>n".
func numbered(prefix string, n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return lines
}

// modify builds the minimal hunk replacing line lineno of base with upper-case
// text, for files where both sides stay aligned.
func modify(lineno int) hunk.Hunk {
	return hunk.Hunk{
		SourceStart: lineno,
		SourceLines: []hunk.Line{hunk.Line(fmt.Sprintf("-l%d", lineno))},
		DestStart:   lineno,
		DestLines:   []hunk.Line{hunk.Line(fmt.Sprintf("+L%d", lineno))},
	}
}

func TestExpandScenario(t *testing.T) {
	minimal, err := hunk.Parse("@@ -1,3 +1,4 @@\n line1\n-line2\n+line2x\n+line3\n line4\n")
	require.NoError(t, err)

	base := []string{"line1", "line2", "line4", "line5"}
	head := []string{"line1", "line2x", "line3", "line4", "line5"}

	got := hunk.Expand(minimal, 1, base, head)
	want := []hunk.Hunk{{
		SourceStart: 1,
		SourceLines: []hunk.Line{" line1", "-line2", " line4"},
		DestStart:   1,
		DestLines:   []hunk.Line{" line1", "+line2x", "+line3", " line4"},
	}}
	assert.Equal(t, want, got)
}

func TestExpandIdentity(t *testing.T) {
	base := numbered("l", 20)
	head := numbered("l", 20)
	minimal := []hunk.Hunk{modify(3), modify(6), modify(12)}

	assert.Equal(t, minimal, hunk.Expand(minimal, 0, base, head))
	assert.Empty(t, hunk.Expand(nil, 5, base, head))
}

func TestExpandMerge(t *testing.T) {
	base := numbered("l", 20)
	head := numbered("l", 20)
	for _, i := range []int{5, 9} {
		head[i-1] = fmt.Sprintf("L%d", i)
	}
	minimal := []hunk.Hunk{modify(5), modify(9)}

	t.Run("gap within context merges", func(t *testing.T) {
		got := hunk.Expand(minimal, 3, base, head)
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].SourceStart)
		assert.Equal(t, 2, got[0].DestStart)
		assert.Equal(t, []hunk.Line{" l2", " l3", " l4", "-l5", " l6", " l7", " l8", "-l9", " l10", " l11", " l12"}, got[0].SourceLines)
		assert.Equal(t, []hunk.Line{" l2", " l3", " l4", "+L5", " l6", " l7", " l8", "+L9", " l10", " l11", " l12"}, got[0].DestLines)

		removed, added := got[0].Changes()
		assert.Equal(t, 2, removed)
		assert.Equal(t, 2, added)
	})

	t.Run("gap beyond context stays split", func(t *testing.T) {
		got := hunk.Expand(minimal, 1, base, head)
		require.Len(t, got, 2)
		assert.Equal(t, []hunk.Line{" l4", "-l5", " l6"}, got[0].SourceLines)
		assert.Equal(t, 8, got[1].SourceStart)
		assert.Equal(t, []hunk.Line{" l8", "-l9", " l10"}, got[1].SourceLines)
	})

	t.Run("split hunks never overlap", func(t *testing.T) {
		got := hunk.Expand(minimal, 2, base, head)
		require.Len(t, got, 2)
		assert.Equal(t, []hunk.Line{" l3", " l4", "-l5", " l6", " l7"}, got[0].SourceLines)
		assert.Equal(t, got[0].SourceEnd(), got[1].SourceStart)
		assert.Equal(t, got[0].DestEnd(), got[1].DestStart)
		assert.Equal(t, []hunk.Line{" l8", "-l9", " l10", " l11"}, got[1].SourceLines)
	})
}

func TestExpandTransitiveMerge(t *testing.T) {
	base := numbered("l", 30)
	head := numbered("l", 30)
	minimal := []hunk.Hunk{modify(5), modify(8), modify(11), modify(25)}

	got := hunk.Expand(minimal, 2, base, head)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].SourceStart)
	assert.Len(t, got[0].SourceLines, 11) // l3..l13
	assert.Equal(t, 23, got[1].SourceStart)

	removed, added := hunk.Stats(got)
	assert.Equal(t, 4, removed)
	assert.Equal(t, 4, added)
}

func TestExpandClampsAtFileBoundaries(t *testing.T) {
	t.Run("change on first line", func(t *testing.T) {
		base := []string{"a", "b", "c"}
		head := []string{"A", "b", "c"}
		minimal := []hunk.Hunk{{SourceStart: 1, SourceLines: []hunk.Line{"-a"}, DestStart: 1, DestLines: []hunk.Line{"+A"}}}

		got := hunk.Expand(minimal, 5, base, head)
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].SourceStart)
		assert.Equal(t, []hunk.Line{"-a", " b", " c"}, got[0].SourceLines)
		assert.Equal(t, []hunk.Line{"+A", " b", " c"}, got[0].DestLines)
	})

	t.Run("deletion at end of file", func(t *testing.T) {
		base := []string{"a", "b", "c"}
		head := []string{"a", "b"}
		minimal, err := hunk.Parse("@@ -1,3 +1,2 @@\n a\n b\n-c\n")
		require.NoError(t, err)
		require.Equal(t, []hunk.Hunk{{SourceStart: 3, SourceLines: []hunk.Line{"-c"}, DestStart: 3}}, minimal)

		got := hunk.Expand(minimal, 3, base, head)
		require.Len(t, got, 1)
		assert.Equal(t, []hunk.Line{" a", " b", "-c"}, got[0].SourceLines)
		assert.Equal(t, []hunk.Line{" a", " b"}, got[0].DestLines)
	})

	t.Run("new file", func(t *testing.T) {
		head := []string{"x", "y"}
		minimal, err := hunk.Parse("@@ -0,0 +1,2 @@\n+x\n+y\n")
		require.NoError(t, err)

		got := hunk.Expand(minimal, 5, nil, head)
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].SourceStart)
		assert.Empty(t, got[0].SourceLines)
		assert.Equal(t, []hunk.Line{"+x", "+y"}, got[0].DestLines)
	})
}

func TestExpandLeadingContextStopsAtPreviousHunk(t *testing.T) {
	base := numbered("l", 12)
	head := append([]string(nil), base...)
	head[4], head[8] = "L5", "L9"

	got := hunk.Expand([]hunk.Hunk{modify(5), modify(9)}, 2, base, head)
	require.Len(t, got, 2)

	assert.Equal(t, 3, got[0].SourceStart)
	assert.Equal(t, 8, got[0].SourceEnd())
	assert.Equal(t, 8, got[1].SourceStart, "line 7 already belongs to the first hunk")
	assert.Equal(t, []hunk.Line{" l8", "-l9", " l10", " l11"}, got[1].SourceLines)
	assert.Equal(t, []hunk.Line{" l8", "+L9", " l10", " l11"}, got[1].DestLines)
}

func TestExpandMonotonicContext(t *testing.T) {
	base := numbered("l", 40)
	head := numbered("l", 40)
	minimal := []hunk.Hunk{modify(2), modify(10), modify(17), modify(38)}

	changeLines := func(hunks []hunk.Hunk) []hunk.Line {
		var out []hunk.Line
		for _, h := range hunks {
			for _, l := range hunk.Interleave(h) {
				if l.Role() != hunk.Context {
					out = append(out, l)
				}
			}
		}
		return out
	}

	prev := hunk.Expand(minimal, 0, base, head)
	for n := 1; n <= 12; n++ {
		cur := hunk.Expand(minimal, n, base, head)
		assert.Equal(t, changeLines(prev), changeLines(cur), "n=%d", n)
		assert.LessOrEqual(t, len(cur), len(prev), "n=%d", n)
		prev = cur
	}
}

func TestExpandReparse(t *testing.T) {
	base := numbered("l", 20)
	head := append([]string{}, base...)
	head[4] = "L5"
	head = append(head[:9], append([]string{"new"}, head[9:]...)...)
	minimal := []hunk.Hunk{
		modify(5),
		{SourceStart: 10, DestStart: 10, DestLines: []hunk.Line{"+new"}},
	}

	for _, n := range []int{1, 3, 5, 20} {
		var patch strings.Builder
		for _, h := range hunk.Expand(minimal, n, base, head) {
			patch.WriteString(h.String())
		}
		got, err := hunk.Parse(patch.String())
		require.NoError(t, err, "n=%d", n)
		assert.Equal(t, minimal, got, "n=%d", n)
	}
}

func TestMergeable(t *testing.T) {
	prev := hunk.Hunk{SourceStart: 5, SourceLines: []hunk.Line{"-a"}, DestStart: 5, DestLines: []hunk.Line{"+b"}}

	assert.True(t, hunk.Mergeable(prev, hunk.Hunk{SourceStart: 8, DestStart: 8}, 2))
	assert.False(t, hunk.Mergeable(prev, hunk.Hunk{SourceStart: 9, DestStart: 9}, 2))
	assert.True(t, hunk.Mergeable(prev, hunk.Hunk{SourceStart: 20, DestStart: 7}, 2), "destination side alone is enough")
	assert.True(t, hunk.Mergeable(prev, hunk.Hunk{SourceStart: 6, DestStart: 6}, 0))
}
