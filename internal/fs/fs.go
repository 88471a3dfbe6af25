package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PathResolver maps repository-relative paths into an output directory.
type PathResolver struct {
	root string
}

// NewPathResolver returns a resolver rooted at dir.
func NewPathResolver(dir string) (*PathResolver, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid output directory '%s': %w", dir, err)
	}
	return &PathResolver{root: abs}, nil
}

// Root is the absolute output directory.
func (r *PathResolver) Root() string {
	return r.root
}

// Resolve joins relativePath onto the root. Paths escaping the root, such as
// "../x" in a hostile patch, are rejected.
func (r *PathResolver) Resolve(relativePath string) (string, error) {
	path := filepath.Join(r.root, filepath.FromSlash(relativePath))
	rel, err := filepath.Rel(r.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes %s", relativePath, r.root)
	}
	return path, nil
}

// DirsToCreate returns the parent directories of targetPaths that do not
// exist yet.
func DirsToCreate(targetPaths []string) map[string]struct{} {
	dirs := make(map[string]struct{})
	for _, path := range targetPaths {
		dir := filepath.Dir(path)
		if dir == "." || dir == "/" {
			continue
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			dirs[dir] = struct{}{}
		}
	}
	return dirs
}

// CreateDirs creates dirs in sorted order.
func CreateDirs(dirs map[string]struct{}) error {
	sortedDirs := make([]string, 0, len(dirs))
	for dir := range dirs {
		sortedDirs = append(sortedDirs, dir)
	}
	sort.Strings(sortedDirs)

	for _, dir := range sortedDirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory '%s': %w", dir, err)
		}
	}
	return nil
}

// WriteFile writes content to path, replacing any existing file.
func WriteFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ViewPath is the export location of one view of a file:
// "<view>/<filename>.txt".
func ViewPath(view, filename string) string {
	return filepath.ToSlash(filepath.Join(view, filename)) + ".txt"
}
