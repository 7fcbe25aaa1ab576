package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadModuleDescriptorParsesModuleAndVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/widgets\n\ngo 1.21\n"), 0o644))

	d, err := ReadModuleDescriptor(dir)
	require.NoError(t, err)
	assert.Equal(t, "example.com/widgets", d.Path)
	assert.Equal(t, "1.21", d.GoVersion)
}

func TestReadModuleDescriptorFallsBackWithoutGoMod(t *testing.T) {
	dir := t.TempDir()

	d, err := ReadModuleDescriptor(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), d.Path)
	assert.Empty(t, d.GoVersion)
}

func TestLoadRunConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadRunConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRunConfig(), cfg)
}

func TestLoadRunConfigOverridesFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cpgconfig.yaml")
	require.NoError(t, os.WriteFile(path, []byte("functionPointerAmbiguityCap: 7\nverbosity: verbose\n"), 0o644))

	cfg, err := LoadRunConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.FunctionPointerAmbiguityCap)
	assert.Equal(t, "verbose", cfg.Verbosity)
	assert.Equal(t, DefaultRunConfig().ExcludeDirs, cfg.ExcludeDirs)
}

func TestLoadRunConfigRejectsNonPositiveAmbiguityCap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cpgconfig.yaml")
	require.NoError(t, os.WriteFile(path, []byte("functionPointerAmbiguityCap: 0\n"), 0o644))

	cfg, err := LoadRunConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultRunConfig().FunctionPointerAmbiguityCap, cfg.FunctionPointerAmbiguityCap)
}
