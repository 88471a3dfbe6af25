package ui

import (
	"bytes"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	color.NoColor = true
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return &buf
}

func TestPrinters(t *testing.T) {
	buf := capture(t)

	Warning("falling back for %s", "a.go")
	Path("- %s", "b.go")

	assert.Equal(t, "falling back for a.go\n  - b.go\n", buf.String())
}

func TestDebugNeedsVerbose(t *testing.T) {
	buf := capture(t)

	Debug("hidden")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debug("shown %d", 1)
	assert.Equal(t, "shown 1\n", buf.String())
}

func TestPrintExportSummary(t *testing.T) {
	buf := capture(t)

	PrintExportSummary("out", []string{"udiff/a.go.txt"}, []string{"sdiff/b.go.txt"})
	assert.Contains(t, buf.String(), "Wrote 1 view(s) to out")
	assert.Contains(t, buf.String(), "  - sdiff/b.go.txt")
}

func TestProgressBar(t *testing.T) {
	buf := capture(t)

	p := NewProgressBar(2, "Exporting")
	p.Start()
	p.Increment()
	p.Increment()
	p.Finish()

	assert.Contains(t, buf.String(), "[2/2] 100.0%")
}
