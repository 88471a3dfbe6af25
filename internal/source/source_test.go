package source

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/webrev/model"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "empty", content: "", want: nil},
		{name: "trailing newline", content: "a\nb\n", want: []string{"a", "b"}},
		{name: "no trailing newline", content: "a\nb", want: []string{"a", "b"}},
		{name: "blank lines kept", content: "a\n\n", want: []string{"a", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.content))
		})
	}
}

func TestPatchProvider(t *testing.T) {
	patch := "diff --git a/x.go b/x.go\n--- a/x.go\n+++ b/x.go\n@@ -1 +1 @@\n-a\n+b\n"
	p := NewPatch("stdin", strings.NewReader(patch))

	c, err := p.Comparison(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stdin", c.Title)
	require.Len(t, c.Files, 1)
	assert.Equal(t, "x.go", c.Files[0].Filename)

	again, err := p.Comparison(context.Background())
	require.NoError(t, err)
	assert.Same(t, c, again, "input is read once")

	_, err = p.Content(context.Background(), c.Files[0], model.Base)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestPatchProviderEmpty(t *testing.T) {
	c, err := NewPatch("stdin", strings.NewReader("  \n")).Comparison(context.Background())
	require.NoError(t, err)
	assert.Empty(t, c.Files)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestPatchProviderReadError(t *testing.T) {
	_, err := NewPatch("stdin", failingReader{}).Comparison(context.Background())
	assert.ErrorContains(t, err, "failed to read from stdin")
}

func TestHasSide(t *testing.T) {
	assert.False(t, hasSide(model.FileDiff{Status: model.StatusAdded}, model.Base))
	assert.True(t, hasSide(model.FileDiff{Status: model.StatusAdded}, model.Head))
	assert.False(t, hasSide(model.FileDiff{Status: model.StatusRemoved}, model.Head))
	assert.True(t, hasSide(model.FileDiff{Status: model.StatusRenamed}, model.Base))
}
