package webrev

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/sokinpui/webrev/cli"
	"github.com/sokinpui/webrev/internal/diffcache"
	"github.com/sokinpui/webrev/internal/fs"
	"github.com/sokinpui/webrev/internal/nvim"
	"github.com/sokinpui/webrev/internal/parser"
	"github.com/sokinpui/webrev/internal/render"
	"github.com/sokinpui/webrev/internal/source"
	"github.com/sokinpui/webrev/internal/ui"
	"github.com/sokinpui/webrev/model"
)

// App orchestrates the entire application logic.
type App struct {
	cfg      *cli.Config
	provider source.Provider
	out      io.Writer

	comparison *model.Comparison
	cache      *diffcache.Cache
	renderer   *render.Renderer
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates an App reading the comparison from the source cfg selects.
func New(cfg *cli.Config) (*App, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithProvider(cfg, provider), nil
}

// NewWithProvider creates an App reading the comparison from provider.
func NewWithProvider(cfg *cli.Config, provider source.Provider) *App {
	return &App{cfg: cfg, provider: provider, out: os.Stdout}
}

// newProvider picks the source: GitHub, the clipboard, a patch piped on stdin,
// or else the local git repository.
func newProvider(cfg *cli.Config) (source.Provider, error) {
	switch {
	case cfg.GitHub != "":
		return source.NewGitHub(cfg.GitHub, cfg.Base, cfg.Head, cfg.Token), nil
	case cfg.Clipboard:
		return source.NewClipboard(), nil
	case cfg.Repo == "" && cfg.Base == "" && cfg.Head == "" && source.IsPiped(os.Stdin):
		return source.NewPatch("stdin", os.Stdin), nil
	default:
		if _, err := exec.LookPath("git"); err != nil {
			return nil, fmt.Errorf("git is required to compare revisions: %w", err)
		}
		return source.NewGit(cfg.Repo, cfg.Base, cfg.Head), nil
	}
}

// SetOutput redirects what Execute prints.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// Load fetches the comparison and prepares the views. It is called by
// Execute and must be called before any other method when Execute is not
// used.
func (a *App) Load(ctx context.Context) error {
	comparison, err := a.provider.Comparison(ctx)
	if err != nil {
		return fmt.Errorf("failed to load comparison: %w", err)
	}
	if len(a.cfg.Extensions) > 0 {
		filtered := *comparison
		filtered.Files = parser.FilterByExtension(comparison.Files, a.cfg.Extensions)
		ui.Debug("Extension filter kept %d of %d file(s)", len(filtered.Files), len(comparison.Files))
		comparison = &filtered
	}

	_, patchOnly := a.provider.(*source.PatchProvider)
	opts := render.DefaultOptions()
	opts.Context = a.cfg.Context
	opts.Contents = !patchOnly
	if a.cfg.Width > 0 {
		opts.Width = a.cfg.Width
	}

	a.comparison = comparison
	a.cache = diffcache.New(a.provider, comparison.Files)
	a.renderer = render.New(comparison, a.cache, opts)
	return nil
}

// Comparison returns the loaded comparison.
func (a *App) Comparison() *model.Comparison {
	return a.comparison
}

// Renderer returns the renderer of the loaded comparison.
func (a *App) Renderer() *render.Renderer {
	return a.renderer
}

// Execute runs the non-interactive modes: export with --output, else print
// the selected view.
func (a *App) Execute(ctx context.Context) (err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	if err := a.Load(ctx); err != nil {
		return err
	}
	if a.cfg.Output != "" {
		return a.Export(ctx, a.cfg.Output)
	}
	return a.Print(ctx)
}

// Print writes the configured view to the output. Without --file a file view
// is printed for every file offering it.
func (a *App) Print(ctx context.Context) error {
	view, err := render.ParseView(a.cfg.View)
	if err != nil {
		return err
	}

	indexes := []int{a.cfg.File}
	if view == render.ViewIndex {
		indexes = []int{0}
	} else if a.cfg.File < 0 {
		indexes = indexes[:0]
		for i := range a.comparison.Files {
			if slices.Contains(a.renderer.Views(i), view) {
				indexes = append(indexes, i)
			}
		}
	}

	var failed []error
	for n, i := range indexes {
		out, err := a.renderer.Render(ctx, view, i)
		if err != nil {
			// A file that cannot be shown does not hide the others.
			ui.Error("%v", err)
			failed = append(failed, err)
			continue
		}
		if n > 0 {
			fmt.Fprintln(a.out)
		}
		fmt.Fprint(a.out, out)
	}
	if len(failed) > 0 && len(failed) == len(indexes) {
		return errors.Join(failed...)
	}
	return nil
}

// Export writes the index and every view of every file below dir.
func (a *App) Export(ctx context.Context, dir string) error {
	resolver, err := fs.NewPathResolver(dir)
	if err != nil {
		return err
	}

	type job struct {
		view  render.View
		index int
		rel   string
	}
	jobs := []job{{view: render.ViewIndex, rel: "index.txt"}}
	for i, f := range a.comparison.Files {
		for _, v := range a.renderer.Views(i) {
			jobs = append(jobs, job{view: v, index: i, rel: fs.ViewPath(string(v), f.Filename)})
		}
	}

	paths := make([]string, len(jobs))
	for i, j := range jobs {
		if paths[i], err = resolver.Resolve(j.rel); err != nil {
			return err
		}
	}
	if err := fs.CreateDirs(fs.DirsToCreate(paths)); err != nil {
		return err
	}

	// Files are written uncolored.
	restore := ui.WithoutColor()
	defer restore()

	var written, failed []string
	bar := ui.NewProgressBar(len(jobs), "Exporting")
	bar.Start()
	for i, j := range jobs {
		out, err := a.renderer.Render(ctx, j.view, j.index)
		if err == nil {
			err = fs.WriteFile(paths[i], out)
		}
		if err != nil {
			ui.Debug("%s: %v", j.rel, err)
			failed = append(failed, j.rel)
		} else {
			written = append(written, j.rel)
		}
		bar.Increment()
	}
	bar.Finish()

	ui.PrintExportSummary(resolver.Root(), written, failed)
	if len(written) == 0 {
		return fmt.Errorf("nothing was written to %s", resolver.Root())
	}
	return nil
}

// Edit opens the file at index on line in Neovim. It returns the command to
// run when a new Neovim has to be started, or nil when a running instance
// took the file.
func (a *App) Edit(ctx context.Context, index, line int) (*exec.Cmd, error) {
	path, err := a.editPath(ctx, index)
	if err != nil {
		return nil, err
	}
	return nvim.Open(path, line)
}

// editPath is the working tree file when there is one, else a temporary copy
// of the head (or, for removed files, base) content.
func (a *App) editPath(ctx context.Context, index int) (string, error) {
	file, err := a.cache.File(index)
	if err != nil {
		return "", err
	}
	if g, ok := a.provider.(*source.GitProvider); ok {
		if path, ok := g.WorktreePath(ctx, file); ok {
			return path, nil
		}
	}

	side, name := model.Head, file.Filename
	if !file.Status.HasHead() {
		side, name = model.Base, file.BaseFilename()
	}
	lines, err := a.cache.Lines(ctx, index, side)
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp("", "webrev-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := fs.WriteFile(path, content); err != nil {
		return "", err
	}
	return path, nil
}
