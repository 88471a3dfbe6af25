package hunk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sokinpui/webrev/hunk"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		h    hunk.Hunk
		want hunk.Kind
	}{
		{
			name: "added lines only",
			h:    hunk.Hunk{SourceStart: 3, DestStart: 3, DestLines: []hunk.Line{"+a", "+b"}},
			want: hunk.PureAddition,
		},
		{
			name: "added lines with context",
			h:    hunk.Hunk{SourceStart: 2, SourceLines: []hunk.Line{" x"}, DestStart: 2, DestLines: []hunk.Line{" x", "+a"}},
			want: hunk.PureAddition,
		},
		{
			name: "removed lines only",
			h:    hunk.Hunk{SourceStart: 3, SourceLines: []hunk.Line{"-a"}, DestStart: 3},
			want: hunk.PureDeletion,
		},
		{
			name: "removed lines with context",
			h:    hunk.Hunk{SourceStart: 2, SourceLines: []hunk.Line{" x", "-a", " y"}, DestStart: 2, DestLines: []hunk.Line{" x", " y"}},
			want: hunk.PureDeletion,
		},
		{
			name: "replacement",
			h:    hunk.Hunk{SourceStart: 1, SourceLines: []hunk.Line{"-a"}, DestStart: 1, DestLines: []hunk.Line{"+b"}},
			want: hunk.Modification,
		},
		{
			name: "degenerate empty hunk",
			h:    hunk.Hunk{SourceStart: 1, DestStart: 1},
			want: hunk.PureAddition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hunk.Classify(tt.h)
			assert.Equal(t, tt.want, got)

			// Exactly one kind applies.
			matches := 0
			if got == hunk.PureAddition {
				matches++
			}
			if got == hunk.PureDeletion {
				matches++
			}
			if got == hunk.Modification {
				matches++
			}
			assert.Equal(t, 1, matches)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "addition", hunk.PureAddition.String())
	assert.Equal(t, "deletion", hunk.PureDeletion.String())
	assert.Equal(t, "modification", hunk.Modification.String())
}
