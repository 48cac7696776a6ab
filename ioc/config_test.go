package ioc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KOMKZ/go-yogan-ioc/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	opts := cfg.ResolverOptions()
	assert.True(t, opts.ImplicitConstruction)
	assert.True(t, opts.InjectFromContainer)
	assert.Equal(t, 64, opts.MaxDepth)
	assert.False(t, cfg.Log.Enabled)
	assert.Equal(t, "ioc", cfg.Log.Module)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
resolver:
  implicit_construction: false
  max_depth: 16
log:
  level: debug
`)
	t.Setenv("APP_ENV", "test")
	writeConfig(t, dir, "test.yaml", `
resolver:
  max_depth: 24
`)
	t.Setenv("IOCTEST_RESOLVER_INJECT_FROM_CONTAINER", "false")

	cfg, err := LoadConfig(dir, "IOCTEST")
	require.NoError(t, err)
	assert.False(t, cfg.Resolver.ImplicitConstruction)
	assert.False(t, cfg.Resolver.InjectFromContainer)
	assert.Equal(t, 24, cfg.Resolver.MaxDepth, "env file overrides config.yaml")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Encoding, "unset keys keep defaults")
}

func TestLoadConfig_EnvOverridesFiles(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", "resolver:\n  max_depth: 16\n")
	t.Setenv("IOCTEST_RESOLVER_MAX_DEPTH", "8")

	cfg, err := LoadConfig(dir, "IOCTEST")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Resolver.MaxDepth)
}

func TestLoadConfigWithFlags(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", "resolver:\n  max_depth: 16\n")
	t.Setenv("IOCTEST_RESOLVER_MAX_DEPTH", "8")

	flags := struct {
		MaxDepth int `config:"resolver.max_depth"`
	}{MaxDepth: 4}

	cfg, err := LoadConfigWithFlags(dir, "IOCTEST", flags)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Resolver.MaxDepth)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
resolver:
  max_depth: -1
log:
  enabled: true
  level: verbose
`)

	_, err := LoadConfig(dir, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, validator.ErrValidation))

	fields := validator.Fields(err)
	assert.Contains(t, fields, "resolver.max_depth")
	assert.Contains(t, fields, "log.Level")
}

func TestNewFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolver.ImplicitConstruction = false
	cfg.Log.Enabled = true
	cfg.Log.BaseLogDir = t.TempDir()
	cfg.Log.EnableConsole = false
	cfg.Log.EnableFile = true

	c, err := NewFromConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	assert.False(t, c.Resolver().Options().ImplicitConstruction)
	_, err = Resolve[*englishGreeter](c)
	assert.Error(t, err)
}

func TestNewFromConfig_Invalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolver.MaxDepth = 0

	_, err := NewFromConfig(cfg)
	assert.True(t, errors.Is(err, validator.ErrValidation))
}
