package nvim

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand(t *testing.T) {
	cmd := Command("main.go", 42)
	assert.Equal(t, []string{"nvim", "+42", "main.go"}, cmd.Args)

	cmd = Command("main.go", 0)
	assert.Equal(t, "+1", cmd.Args[1])
}

func TestOpenWithoutRunningInstance(t *testing.T) {
	t.Setenv(ListenAddressEnv, "")

	cmd, err := Open("main.go", 7)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, "+7", cmd.Args[1])
}

func TestOpenUnreachableInstance(t *testing.T) {
	t.Setenv(ListenAddressEnv, filepath.Join(t.TempDir(), "missing.sock"))

	cmd, err := Open("main.go", 7)
	assert.Nil(t, cmd)
	assert.ErrorContains(t, err, "failed to connect to nvim")
}
