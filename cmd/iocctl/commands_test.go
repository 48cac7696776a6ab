package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func configDir(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestConfigShow_FlagOverride(t *testing.T) {
	dir := configDir(t, "resolver:\n  max_depth: 16\n")

	out, _, err := run(t, "config", "show", "-c", dir, "--env-prefix", "IOCCTLTEST", "--max-depth", "9")
	require.NoError(t, err)
	assert.Contains(t, out, `"max_depth": 9`)
	assert.Contains(t, out, `"implicit_construction": true`)
}

func TestConfigCheck(t *testing.T) {
	out, _, err := run(t, "config", "check", "-c", configDir(t, "resolver:\n  max_depth: 16\n"))
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	_, errOut, err := run(t, "config", "check", "-c", configDir(t, "resolver:\n  max_depth: -3\n"))
	require.Error(t, err)
	assert.Contains(t, errOut, "resolver.max_depth:")
}

func TestSelfCheck(t *testing.T) {
	out, _, err := run(t, "selfcheck", "-c", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "mapping")
	assert.Contains(t, out, "argument override")
	assert.Contains(t, out, "substitute")
	assert.Contains(t, out, "healthy")
}
