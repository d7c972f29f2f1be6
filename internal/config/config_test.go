package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chTempDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "edinet.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://api.edinet-fsa.go.jp/api/v2", cfg.EDINET.BaseURL)
	assert.Equal(t, 60, cfg.EDINET.TimeoutSecs)
	assert.Equal(t, 3, cfg.EDINET.MaxRetries)
	assert.InDelta(t, 1.0, cfg.EDINET.RequestsPerSec, 0.001)
	assert.Equal(t, 4, cfg.Extract.Concurrency)
	assert.Equal(t, "output", cfg.Output.Dir)
}

func TestLoadFromYAML(t *testing.T) {
	chTempDir(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/edinet
edinet:
  subscription_key: my-key
  requests_per_sec: 2
extract:
  concurrency: 8
log:
  level: debug
  format: console
server:
  port: 9090
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/edinet", cfg.Store.DatabaseURL)
	assert.Equal(t, "my-key", cfg.EDINET.SubscriptionKey)
	assert.InDelta(t, 2.0, cfg.EDINET.RequestsPerSec, 0.001)
	assert.Equal(t, 8, cfg.Extract.Concurrency)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadFromEnvironment(t *testing.T) {
	chTempDir(t)
	t.Setenv("EDINET_STORE_DRIVER", "postgres")
	t.Setenv("EDINET_EDINET_SUBSCRIPTION_KEY", "env-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "env-key", cfg.EDINET.SubscriptionKey)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nonsense", Format: "json"}))
}
