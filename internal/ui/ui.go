package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
	DebugColor   = color.New(color.Faint)
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stderr
	verbose bool
)

// SetOutput redirects all status output. Tests use it to capture messages.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetVerbose enables Debug messages.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// DisableColor turns off colors for every printer, including the views.
func DisableColor() {
	color.NoColor = true
}

// WithoutColor disables colors until the returned function is called.
func WithoutColor() (restore func()) {
	prev := color.NoColor
	color.NoColor = true
	return func() { color.NoColor = prev }
}

func emit(c *color.Color, format string, a ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	c.Fprintf(out, format+"\n", a...)
}

func Header(format string, a ...interface{}) {
	emit(HeaderColor, format, a...)
}

func Info(format string, a ...interface{}) {
	emit(InfoColor, format, a...)
}

func Success(format string, a ...interface{}) {
	emit(SuccessColor, format, a...)
}

func Warning(format string, a ...interface{}) {
	emit(WarningColor, format, a...)
}

func Error(format string, a ...interface{}) {
	emit(ErrorColor, format, a...)
}

func Path(format string, a ...interface{}) {
	emit(PathColor, "  "+format, a...)
}

// Debug prints only in verbose mode.
func Debug(format string, a ...interface{}) {
	mu.Lock()
	v := verbose
	mu.Unlock()
	if v {
		emit(DebugColor, format, a...)
	}
}

// --- Summaries ---

// PrintExportSummary reports the result of writing views to disk.
func PrintExportSummary(dir string, written, failed []string) {
	Header("\n--- Export Summary ---")

	if len(written) == 0 && len(failed) == 0 {
		Info("No views were written.")
		return
	}
	if len(written) > 0 {
		Success("Wrote %d view(s) to %s", len(written), dir)
	}
	if len(failed) > 0 {
		Error("Failed to write %d view(s):", len(failed))
		for _, f := range failed {
			Path("- %s", f)
		}
	}
}

// --- Progress Bar ---

type ProgressBar struct {
	total   int
	prefix  string
	current int
}

func NewProgressBar(total int, prefix string) *ProgressBar {
	return &ProgressBar{total: total, prefix: prefix}
}

func (p *ProgressBar) Start() {
	p.draw()
}

func (p *ProgressBar) Increment() {
	p.current++
	p.draw()
}

func (p *ProgressBar) Finish() {
	if p.total == 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out)
}

func (p *ProgressBar) draw() {
	if p.total == 0 {
		return
	}
	const barLength = 40
	percent := float64(p.current) / float64(p.total)
	filledLength := int(percent * barLength)
	bar := strings.Repeat("█", filledLength) + strings.Repeat("-", barLength-filledLength)

	percentStr := fmt.Sprintf("%.1f%%", percent*100)
	countStr := fmt.Sprintf("[%d/%d]", p.current, p.total)

	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "\r%s |%s| %s %s", p.prefix, bar, countStr, percentStr)
}
