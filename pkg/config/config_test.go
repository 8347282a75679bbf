package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFileReturnsErrNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadParsesYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "komodo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /var/lib/komodo
bind_addr: ":9000"
dispatch_concurrency: 25
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/komodo", cfg.DataDir)
	assert.Equal(t, ":9000", cfg.BindAddr)
	assert.Equal(t, 25, cfg.DispatchConcurrency)
	assert.Equal(t, Default().StatusPollIntervalSeconds, cfg.StatusPollIntervalSeconds)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "komodo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /from/file\n"), 0o600))

	t.Setenv("KOMODO_DATA_DIR", "/from/env")
	t.Setenv("KOMODO_DISPATCH_CONCURRENCY", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.DataDir)
	assert.Equal(t, 3, cfg.DispatchConcurrency)
}

func TestLoadRejectsInvalidConcurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "komodo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dispatch_concurrency: 0\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()
	assert.Equal(t, cfg.StatusPollIntervalSeconds, int(cfg.StatusPollInterval().Seconds()))
	assert.Equal(t, cfg.StatusCacheTTLSeconds, int(cfg.StatusCacheTTL().Seconds()))
	assert.Equal(t, cfg.PeripheryTimeoutSeconds, int(cfg.PeripheryTimeout().Seconds()))
}
