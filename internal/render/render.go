// Package render turns the hunks of a comparison into text views. Every view
// asks the diff cache for hunks with the context size it needs, so the same
// parsed patch serves all of them.
package render

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sokinpui/webrev/hunk"
	"github.com/sokinpui/webrev/internal/diffcache"
	"github.com/sokinpui/webrev/model"
)

// ErrUnavailable is returned when a view is not offered for a file.
var ErrUnavailable = errors.New("view not available")

// Options tune the renderer.
type Options struct {
	// Context overrides the context size of the diff views. Negative keeps
	// each view's default.
	Context int
	// Width is the terminal width used by the two-column views.
	Width int
	// Contents is false when the provider cannot supply file contents.
	Contents bool
}

// DefaultOptions are used by the command line unless flags say otherwise.
func DefaultOptions() Options {
	return Options{Context: -1, Width: 160, Contents: true}
}

// Renderer renders the views of one comparison.
type Renderer struct {
	comparison *model.Comparison
	cache      *diffcache.Cache
	opts       Options
}

func New(comparison *model.Comparison, cache *diffcache.Cache, opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = DefaultOptions().Width
	}
	return &Renderer{comparison: comparison, cache: cache, opts: opts}
}

// WithWidth returns a renderer sharing r's cache that lays out the
// two-column views for width columns.
func (r *Renderer) WithWidth(width int) *Renderer {
	if width <= 0 {
		return r
	}
	c := *r
	c.opts.Width = width
	return &c
}

// Hunks returns the minimal hunks of the file at index.
func (r *Renderer) Hunks(index int) ([]hunk.Hunk, error) {
	return r.cache.Hunks(index)
}

// Comparison returns the comparison being rendered.
func (r *Renderer) Comparison() *model.Comparison {
	return r.comparison
}

// Views lists the views offered for the file at index.
func (r *Renderer) Views(index int) []View {
	file, err := r.cache.File(index)
	if err != nil {
		return nil
	}
	return FileViews(file.Status, r.opts.Contents)
}

// Render renders view for the file at index. The index view ignores index.
func (r *Renderer) Render(ctx context.Context, view View, index int) (string, error) {
	if view == ViewIndex {
		return r.Index(), nil
	}

	file, err := r.cache.File(index)
	if err != nil {
		return "", err
	}
	if !slices.Contains(r.Views(index), view) {
		return "", fmt.Errorf("%s of %s: %w", view, file.Filename, ErrUnavailable)
	}

	var b strings.Builder
	switch view {
	case ViewOld:
		err = r.writeFile(ctx, &b, index, model.Base)
	case ViewNew:
		err = r.writeFile(ctx, &b, index, model.Head)
	case ViewFrames:
		var f *Frames
		if f, err = r.Frames(ctx, index); err == nil {
			b.WriteString(f.String(r.opts.Width))
		}
	default:
		var hunks []hunk.Hunk
		if hunks, err = r.hunks(ctx, view, index); err != nil {
			break
		}
		switch view {
		case ViewContext:
			writeContext(&b, file, hunks)
		case ViewUnified:
			writeUnified(&b, file, hunks)
		case ViewSideBySide:
			writeSideBySide(&b, file, hunks, r.opts.Width)
		case ViewPatch:
			writePatch(&b, file, hunks)
		}
	}
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// ContextFor is the context size view uses for the file at index.
func (r *Renderer) ContextFor(view View, index int) int {
	if !r.opts.Contents || view == ViewFrames {
		return 0
	}
	if view == ViewPatch {
		file, err := r.cache.File(index)
		if err != nil || !file.Status.HasBase() || !file.Status.HasHead() {
			return 0
		}
	}
	if r.opts.Context >= 0 {
		return r.opts.Context
	}
	return view.DefaultContext()
}

func (r *Renderer) hunks(ctx context.Context, view View, index int) ([]hunk.Hunk, error) {
	return r.cache.Expanded(ctx, index, r.ContextFor(view, index))
}

// fileTitle is the name shown above a file's view.
func fileTitle(file model.FileDiff) string {
	if prev := file.BaseFilename(); prev != file.Filename {
		return fmt.Sprintf("%s (was %s)", file.Filename, prev)
	}
	return file.Filename
}
