package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	r, err := NewPathResolver(dir)
	require.NoError(t, err)

	path, err := r.Resolve("udiff/src/main.go.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "udiff", "src", "main.go.txt"), path)

	_, err = r.Resolve("../outside.txt")
	assert.ErrorContains(t, err, "escapes")

	_, err = r.Resolve("udiff/../../outside.txt")
	assert.Error(t, err)
}

func TestCreateDirsAndWrite(t *testing.T) {
	dir := t.TempDir()
	targets := []string{
		filepath.Join(dir, "a", "b", "one.txt"),
		filepath.Join(dir, "a", "two.txt"),
		filepath.Join(dir, "three.txt"),
	}

	dirs := DirsToCreate(targets)
	assert.Len(t, dirs, 2)
	require.NoError(t, CreateDirs(dirs))

	for _, target := range targets {
		require.NoError(t, WriteFile(target, "x\n"))
	}
	content, err := os.ReadFile(targets[0])
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(content))

	assert.Empty(t, DirsToCreate(targets))
}

func TestViewPath(t *testing.T) {
	assert.Equal(t, "sdiff/src/main.go.txt", ViewPath("sdiff", "src/main.go"))
}
