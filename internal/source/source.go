package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/webrev/internal/parser"
	"github.com/sokinpui/webrev/internal/ui"
	"github.com/sokinpui/webrev/model"
)

// ErrNoContent is returned by Content when a provider cannot supply the file
// at the requested side: patch-only sources, the base of an added file or the
// head of a removed one.
var ErrNoContent = errors.New("file content not available")

// Provider supplies the comparison to render and the full contents behind it.
type Provider interface {
	Comparison(ctx context.Context) (*model.Comparison, error)
	Content(ctx context.Context, file model.FileDiff, side model.Side) ([]string, error)
}

// SplitLines splits file content into lines. A final newline does not start
// another line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// hasSide reports whether file exists at side at all.
func hasSide(file model.FileDiff, side model.Side) bool {
	if side == model.Base {
		return file.Status.HasBase()
	}
	return file.Status.HasHead()
}

// PatchProvider serves a comparison read from patch text: a raw (git) patch
// or Markdown carrying ```diff blocks. It has no file contents.
type PatchProvider struct {
	title string
	read  func() (string, error)

	once       sync.Once
	comparison *model.Comparison
	err        error
}

// NewPatch reads the patch from r on first use.
func NewPatch(title string, r io.Reader) *PatchProvider {
	return &PatchProvider{
		title: title,
		read: func() (string, error) {
			content, err := io.ReadAll(r)
			if err != nil {
				return "", fmt.Errorf("failed to read from %s: %w", title, err)
			}
			return string(content), nil
		},
	}
}

// NewClipboard reads the patch from the system clipboard.
func NewClipboard() *PatchProvider {
	return &PatchProvider{
		title: "clipboard",
		read: func() (string, error) {
			content, err := clipboard.ReadAll()
			if err != nil {
				return "", fmt.Errorf("failed to read from clipboard: %w", err)
			}
			return content, nil
		},
	}
}

// Detect reads from stdin when it is piped, from the clipboard otherwise.
func Detect() *PatchProvider {
	if IsPiped(os.Stdin) {
		ui.Debug("Reading patch from stdin")
		return NewPatch("stdin", os.Stdin)
	}
	ui.Debug("Reading patch from clipboard")
	return NewClipboard()
}

// IsPiped reports whether f is a pipe or file rather than a terminal.
func IsPiped(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

func (p *PatchProvider) Comparison(ctx context.Context) (*model.Comparison, error) {
	p.once.Do(func() {
		p.comparison, p.err = p.load()
	})
	return p.comparison, p.err
}

func (p *PatchProvider) load() (*model.Comparison, error) {
	content, err := p.read()
	if err != nil {
		return nil, err
	}
	c := &model.Comparison{Title: p.title}
	if strings.TrimSpace(content) == "" {
		ui.Warning("%s is empty. Nothing to show.", p.title)
		return c, nil
	}

	files, err := parser.ParseSource(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse patch from %s: %w", p.title, err)
	}
	c.Files = files
	return c, nil
}

func (p *PatchProvider) Content(ctx context.Context, file model.FileDiff, side model.Side) ([]string, error) {
	return nil, ErrNoContent
}
