package nvim

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/neovim/go-client/nvim"
)

// ListenAddressEnv names the socket of a running Neovim instance.
const ListenAddressEnv = "NVIM_LISTEN_ADDRESS"

// Manager holds a connection to a running Neovim instance.
type Manager struct {
	nvim *nvim.Nvim
}

// Dial connects to the Neovim instance listening at addr.
func Dial(addr string) (*Manager, error) {
	v, err := nvim.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nvim at %s: %w", addr, err)
	}
	return &Manager{nvim: v}, nil
}

// Close disconnects from Neovim.
func (m *Manager) Close() {
	if m.nvim != nil {
		m.nvim.Close()
	}
}

// Open edits path in the current window with the cursor on line.
func (m *Manager) Open(path string, line int) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	var escaped string
	if err := m.nvim.Call("fnameescape", &escaped, absPath); err != nil {
		return fmt.Errorf("failed to escape %s: %w", absPath, err)
	}

	b := m.nvim.NewBatch()
	b.Command(fmt.Sprintf("edit %s", escaped))
	b.Command(fmt.Sprintf("call cursor(%d, 1)", max(line, 1)))
	b.Command("normal! zz")
	if err := b.Execute(); err != nil {
		return fmt.Errorf("failed to open %s in nvim: %w", path, err)
	}
	return nil
}

// Command returns the command starting a new Neovim on path at line, for
// callers that hand the terminal over to it.
func Command(path string, line int) *exec.Cmd {
	cmd := exec.Command("nvim", fmt.Sprintf("+%d", max(line, 1)), path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// Open shows path at line in the Neovim instance named by
// NVIM_LISTEN_ADDRESS. It returns a nil command when that worked. Otherwise it
// returns the command starting a new instance, to be run by the caller.
func Open(path string, line int) (*exec.Cmd, error) {
	addr := os.Getenv(ListenAddressEnv)
	if addr == "" {
		return Command(path, line), nil
	}

	m, err := Dial(addr)
	if err != nil {
		return nil, err
	}
	defer m.Close()
	return nil, m.Open(path, line)
}
