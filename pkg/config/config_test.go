package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Routing.MaxConcurrentCommands)
	assert.Equal(t, 30_000, cfg.Routing.DefaultTimeoutMs)
	assert.Equal(t, 0, cfg.Routing.RatePerMinute)
	assert.Equal(t, "confidence_based", cfg.Selection.Strategy)
	assert.InDelta(t, 0.7, cfg.Selection.MinConfidence, 1e-9)
	assert.True(t, cfg.Selection.FallbackEnabled)
	assert.True(t, cfg.Workspace.Restrict)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "routing": {"max_concurrent_commands": 3, "rate_per_minute": 60},
  "selection": {"strategy": "learning_optimized", "min_confidence": 0.5},
  "logging": {"level": "debug"}
}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Routing.MaxConcurrentCommands)
	assert.Equal(t, 60, cfg.Routing.RatePerMinute)
	assert.Equal(t, "learning_optimized", cfg.Selection.Strategy)
	assert.InDelta(t, 0.5, cfg.Selection.MinConfidence, 1e-9)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults.
	assert.Equal(t, 30_000, cfg.Routing.DefaultTimeoutMs)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"routing": {"max_concurrent_commands": 3}}`), 0o644))

	t.Setenv("MAESTRO_ROUTING_MAX_CONCURRENT", "7")
	t.Setenv("MAESTRO_SELECTION_STRATEGY", "hybrid")
	t.Setenv("MAESTRO_LOG_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Routing.MaxConcurrentCommands)
	assert.Equal(t, "hybrid", cfg.Selection.Strategy)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.Routing.MaxConcurrentCommands = 4
	cfg.Selection.FallbackPersonaID = "dev-generalist"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Routing.MaxConcurrentCommands)
	assert.Equal(t, "dev-generalist", loaded.Selection.FallbackPersonaID)
}
