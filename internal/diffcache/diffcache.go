// Package diffcache holds the hunks of one comparison. Every file's patch is
// parsed once, file contents are fetched on first use, and expanded hunks are
// memoized per context size. Concurrent callers asking for the same entry
// share a single computation.
package diffcache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sokinpui/webrev/hunk"
	"github.com/sokinpui/webrev/internal/source"
	"github.com/sokinpui/webrev/internal/ui"
	"github.com/sokinpui/webrev/model"
)

type contentKey struct {
	index int
	side  model.Side
}

type expandKey struct {
	index int
	n     int
}

// Cache is safe for concurrent use.
type Cache struct {
	provider source.Provider
	files    []model.FileDiff

	mu       sync.Mutex
	minimal  map[int][]hunk.Hunk
	contents map[contentKey][]string
	expanded map[expandKey][]hunk.Hunk
	group    singleflight.Group
}

// New returns an empty cache for the files of a comparison.
func New(provider source.Provider, files []model.FileDiff) *Cache {
	return &Cache{
		provider: provider,
		files:    files,
		minimal:  make(map[int][]hunk.Hunk),
		contents: make(map[contentKey][]string),
		expanded: make(map[expandKey][]hunk.Hunk),
	}
}

// Files returns the files the cache was built for.
func (c *Cache) Files() []model.FileDiff {
	return c.files
}

// File returns the file at index.
func (c *Cache) File(index int) (model.FileDiff, error) {
	if index < 0 || index >= len(c.files) {
		return model.FileDiff{}, fmt.Errorf("file index %d out of range [0, %d)", index, len(c.files))
	}
	return c.files[index], nil
}

// Hunks returns the minimal hunks of the file at index. A malformed patch is
// reported with the file name and is not cached.
func (c *Cache) Hunks(index int) ([]hunk.Hunk, error) {
	file, err := c.File(index)
	if err != nil {
		return nil, err
	}

	if h, ok := c.lookupMinimal(index); ok {
		return h, nil
	}

	v, err, _ := c.group.Do(fmt.Sprintf("hunks/%d", index), func() (interface{}, error) {
		if h, ok := c.lookupMinimal(index); ok {
			return h, nil
		}
		h, err := hunk.Parse(file.Patch)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file.Filename, err)
		}
		c.mu.Lock()
		c.minimal[index] = h
		c.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]hunk.Hunk), nil
}

// Lines returns the content of the file at index on side. It returns an error
// matching source.ErrNoContent when the provider has no such content.
func (c *Cache) Lines(ctx context.Context, index int, side model.Side) ([]string, error) {
	file, err := c.File(index)
	if err != nil {
		return nil, err
	}

	key := contentKey{index: index, side: side}
	if lines, ok := c.lookupContent(key); ok {
		return lines, nil
	}

	v, err, _ := c.group.Do(fmt.Sprintf("lines/%d/%s", index, side), func() (interface{}, error) {
		// A call that finished after the lookup above has stored its result.
		if lines, ok := c.lookupContent(key); ok {
			return lines, nil
		}
		lines, err := c.provider.Content(ctx, file, side)
		if err != nil {
			return nil, fmt.Errorf("%s (%s): %w", file.Filename, side, err)
		}
		c.mu.Lock()
		c.contents[key] = lines
		c.mu.Unlock()
		return lines, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// Expanded returns the hunks of the file at index with n lines of context.
// When the provider cannot supply the contents the minimal hunks are returned
// instead, with a warning.
func (c *Cache) Expanded(ctx context.Context, index, n int) ([]hunk.Hunk, error) {
	minimal, err := c.Hunks(index)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return minimal, nil
	}

	key := expandKey{index: index, n: n}
	if h, ok := c.lookupExpanded(key); ok {
		return h, nil
	}

	v, err, _ := c.group.Do(fmt.Sprintf("expand/%d/%d", index, n), func() (interface{}, error) {
		if h, ok := c.lookupExpanded(key); ok {
			return h, nil
		}
		h := minimal
		base, head, err := c.sides(ctx, index)
		switch {
		case errors.Is(err, source.ErrNoContent):
			ui.Warning("No content for %s, showing changes without context.", c.files[index].Filename)
		case err != nil:
			return nil, err
		default:
			h = hunk.Expand(minimal, n, base, head)
		}
		c.mu.Lock()
		c.expanded[key] = h
		c.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]hunk.Hunk), nil
}

func (c *Cache) lookupMinimal(index int) ([]hunk.Hunk, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.minimal[index]
	return h, ok
}

func (c *Cache) lookupContent(key contentKey) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines, ok := c.contents[key]
	return lines, ok
}

func (c *Cache) lookupExpanded(key expandKey) ([]hunk.Hunk, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.expanded[key]
	return h, ok
}

// HasContent reports whether the provider can supply both sides of the file
// at index. A missing side of an added or removed file does not count.
func (c *Cache) HasContent(ctx context.Context, index int) bool {
	_, _, err := c.sides(ctx, index)
	return err == nil
}

// sides fetches both sides of a file. A side the file does not have at all is
// returned empty.
func (c *Cache) sides(ctx context.Context, index int) (base, head []string, err error) {
	file, err := c.File(index)
	if err != nil {
		return nil, nil, err
	}
	if file.Status.HasBase() {
		if base, err = c.Lines(ctx, index, model.Base); err != nil {
			return nil, nil, err
		}
	}
	if file.Status.HasHead() {
		if head, err = c.Lines(ctx, index, model.Head); err != nil {
			return nil, nil, err
		}
	}
	return base, head, nil
}
