package cli

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlagsDefaults(t *testing.T) {
	t.Setenv(TokenEnv, "")

	cfg, err := ParseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "index", cfg.View)
	assert.Equal(t, -1, cfg.File)
	assert.Equal(t, -1, cfg.Context)
	assert.Empty(t, cfg.Extensions)
}

func TestParseFlags(t *testing.T) {
	t.Setenv(TokenEnv, "secret")

	cfg, err := ParseFlags([]string{"-C", "repo", "--base", "main", "-v", "sdiff", "-f", "2", "-U", "0", "-e", "go,.py", "--no-tui"})
	require.NoError(t, err)
	assert.Equal(t, "repo", cfg.Repo)
	assert.Equal(t, "main", cfg.Base)
	assert.Equal(t, "sdiff", cfg.View)
	assert.Equal(t, 2, cfg.File)
	assert.Equal(t, 0, cfg.Context)
	assert.Equal(t, []string{".go", ".py"}, cfg.Extensions)
	assert.True(t, cfg.NoTUI)
	assert.Equal(t, "secret", cfg.Token)
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "exclusive sources", args: []string{"--github", "o/r", "--clipboard"}, want: "mutually exclusive"},
		{name: "repo with github", args: []string{"--github", "o/r", "--base", "a", "--head", "b", "-C", "."}, want: "--repo cannot be combined"},
		{name: "github needs refs", args: []string{"--github", "o/r", "--base", "a"}, want: "needs both"},
		{name: "github name", args: []string{"--github", "repo", "--base", "a", "--head", "b"}, want: "owner/name"},
		{name: "unknown view", args: []string{"-v", "wdiff"}, want: "unknown view"},
		{name: "negative context", args: []string{"-U", "-3"}, want: "must not be negative"},
		{name: "positional", args: []string{"extra"}, want: "unexpected arguments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestParseFlagsHelp(t *testing.T) {
	_, err := ParseFlags([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}
