package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "timescope.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 5000, cfg.Tracking.IntervalMs)
	require.Equal(t, 180000, cfg.Tracking.IdleThresholdMs)
	require.Equal(t, 30, cfg.Tracking.BlockMinutes)
	require.Empty(t, cfg.Tracking.ExcludedApps)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
db:
  path: /tmp/custom.db
log:
  level: debug
tracking:
  interval_ms: 10000
  excluded_apps:
    - 1Password
    - KeePassXC
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("TIMESCOPE_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/custom.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 10000, cfg.Tracking.IntervalMs)
	// Unset file keys keep their defaults.
	require.Equal(t, 180000, cfg.Tracking.IdleThresholdMs)
	require.Equal(t, []string{"1Password", "KeePassXC"}, cfg.Tracking.ExcludedApps)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db:\n  path: /tmp/file.db\n"), 0o600))
	t.Setenv("TIMESCOPE_CONFIG_PATH", path)
	t.Setenv("TIMESCOPE_DB_PATH", "/tmp/env.db")
	t.Setenv("TIMESCOPE_IDLE_THRESHOLD_MS", "60000")
	t.Setenv("TIMESCOPE_EXCLUDED_APPS", "1Password, Bitwarden,")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/env.db", cfg.DB.Path)
	require.Equal(t, 60000, cfg.Tracking.IdleThresholdMs)
	require.Equal(t, []string{"1Password", "Bitwarden"}, cfg.Tracking.ExcludedApps)
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("TIMESCOPE_TRACKING_INTERVAL_MS", "soon")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "TIMESCOPE_TRACKING_INTERVAL_MS")
}

func TestLoad_RejectsNonPositiveInterval(t *testing.T) {
	t.Setenv("TIMESCOPE_TRACKING_INTERVAL_MS", "0")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "interval must be positive")
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("TIMESCOPE_CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}
