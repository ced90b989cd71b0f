package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/robalyx/warden/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadConfigFrom(t *testing.T) {
	t.Parallel()

	t.Run("loads both files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "common.toml", `
[common]
version = 1

[common.perspective]
api_key = "secret"
timeout = 2500

[common.moderation]
spam_threshold = 0.7
monitoring_interval_minutes = 5
`)
		writeFile(t, dir, "worker.toml", `
[worker]
version = 1
batch_size = 50
`)

		cfg, used, err := config.LoadConfigFrom(filepath.Join(dir, "missing"), dir)
		require.NoError(t, err)
		assert.Equal(t, dir, used)
		assert.Equal(t, "secret", cfg.Common.Perspective.APIKey)
		assert.Equal(t, 2500, cfg.Common.Perspective.Timeout)
		assert.InDelta(t, 0.7, cfg.Common.Moderation.SpamThreshold, 1e-9)
		assert.Equal(t, 5, cfg.Common.Moderation.MonitoringIntervalMinutes)
		assert.Equal(t, 50, cfg.Worker.BatchSize)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "common.toml", "[common]\nversion = 1\n")

		_, _, err := config.LoadConfigFrom(dir)
		require.ErrorIs(t, err, config.ErrConfigFileNotFound)
	})

	t.Run("version mismatch", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "common.toml", "[common]\nversion = 99\n")
		writeFile(t, dir, "worker.toml", "[worker]\nversion = 1\n")

		_, _, err := config.LoadConfigFrom(dir)
		require.ErrorIs(t, err, config.ErrConfigVersionMismatch)
	})

	t.Run("version missing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "common.toml", "[common]\n")
		writeFile(t, dir, "worker.toml", "[worker]\nversion = 1\n")

		_, _, err := config.LoadConfigFrom(dir)
		require.ErrorIs(t, err, config.ErrConfigVersionMissing)
	})
}
