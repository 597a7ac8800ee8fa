package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPartialFileKeepsEngineDefaults(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: prop-edge
  environment: staging
  log_level: debug
engine:
  max_concurrency: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Environment)
	assert.Equal(t, 4, cfg.Engine.MaxConcurrency)
	// Untouched threshold tables fall back to the defaults.
	assert.Len(t, cfg.Engine.Shrinkage.Brackets, 5)
	assert.Equal(t, 0.50, cfg.Engine.Shrinkage.DefaultPrior)
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "hunter2")
	path := writeConfigFile(t, `
database:
  password: ${TEST_DB_PASSWORD}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Database.Password)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadWithDefaultsToleratesMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "prop-edge", cfg.App.Name)
	assert.Equal(t, ":8087", cfg.Server.ListenAddress)
}
