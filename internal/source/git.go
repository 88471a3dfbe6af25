package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/sokinpui/webrev/internal/parser"
	"github.com/sokinpui/webrev/internal/ui"
	"github.com/sokinpui/webrev/model"
)

// GitProvider compares two revisions of a local repository. An empty head
// compares base against the working tree.
//
// The diff comes from the git binary, which detects copies and diffs the
// working tree; file contents at a revision are read with go-git.
type GitProvider struct {
	dir  string
	base string
	head string

	rootOnce sync.Once
	root     string
	rootErr  error

	repoOnce sync.Once
	repo     *gogit.Repository
	repoErr  error
	repoMu   sync.Mutex // go-git object reads are not safe for concurrent use
}

// NewGit returns a provider for the repository containing dir. base defaults
// to HEAD.
func NewGit(dir, base, head string) *GitProvider {
	if dir == "" {
		dir = "."
	}
	if base == "" {
		base = "HEAD"
	}
	return &GitProvider{dir: dir, base: base, head: head}
}

func (g *GitProvider) Comparison(ctx context.Context) (*model.Comparison, error) {
	root, err := g.toplevel(ctx)
	if err != nil {
		return nil, err
	}

	args := []string{"diff", "--no-color", "--no-ext-diff", "--find-renames", "--find-copies", g.base}
	if g.head != "" {
		args = append(args, g.head)
	}
	patch, err := g.git(ctx, args...)
	if err != nil {
		return nil, err
	}

	files, err := parser.SplitPatch(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to split git diff: %w", err)
	}
	ui.Debug("git diff %s %s: %d file(s)", g.base, g.head, len(files))

	head := g.head
	if head == "" {
		head = "working tree"
	}
	return &model.Comparison{
		Title: filepath.Base(root),
		Base:  g.base,
		Head:  head,
		Files: files,
	}, nil
}

func (g *GitProvider) Content(ctx context.Context, file model.FileDiff, side model.Side) ([]string, error) {
	if !hasSide(file, side) {
		return nil, ErrNoContent
	}

	if path, ok := g.WorktreePath(ctx, file); ok && side == model.Head {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file.Filename, err)
		}
		return SplitLines(string(content)), nil
	}

	rev, path := g.base, file.BaseFilename()
	if side == model.Head {
		rev, path = g.head, file.Filename
	}
	content, err := g.fileContent(ctx, rev, path)
	if err != nil {
		return nil, err
	}
	return SplitLines(content), nil
}

// fileContent returns the content of path at revision rev.
func (g *GitProvider) fileContent(ctx context.Context, rev, path string) (string, error) {
	repo, err := g.repository(ctx)
	if err != nil {
		return "", err
	}
	g.repoMu.Lock()
	defer g.repoMu.Unlock()

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("resolve revision %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return "", fmt.Errorf("get commit %s: %w", rev, err)
	}
	f, err := commit.File(path)
	if err != nil {
		return "", fmt.Errorf("get file %s at %s: %w", path, rev, err)
	}
	content, err := f.Contents()
	if err != nil {
		return "", fmt.Errorf("read file %s at %s: %w", path, rev, err)
	}
	return content, nil
}

func (g *GitProvider) repository(ctx context.Context) (*gogit.Repository, error) {
	root, err := g.toplevel(ctx)
	if err != nil {
		return nil, err
	}
	g.repoOnce.Do(func() {
		g.repo, g.repoErr = gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{EnableDotGitCommonDir: true})
		if g.repoErr != nil {
			g.repoErr = fmt.Errorf("open repository: %w", g.repoErr)
		}
	})
	return g.repo, g.repoErr
}

// WorktreePath returns the file's path in the working tree when the head side
// of the comparison is the working tree.
func (g *GitProvider) WorktreePath(ctx context.Context, file model.FileDiff) (string, bool) {
	if g.head != "" || !file.Status.HasHead() {
		return "", false
	}
	root, err := g.toplevel(ctx)
	if err != nil {
		return "", false
	}
	return filepath.Join(root, file.Filename), true
}

func (g *GitProvider) toplevel(ctx context.Context) (string, error) {
	g.rootOnce.Do(func() {
		out, err := g.git(ctx, "rev-parse", "--show-toplevel")
		if err != nil {
			g.rootErr = fmt.Errorf("%s is not a git repository: %w", g.dir, err)
			return
		}
		g.root = strings.TrimSpace(out)
	})
	return g.root, g.rootErr
}

func (g *GitProvider) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", g.dir}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
