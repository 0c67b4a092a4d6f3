package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the override variables; applyEnv ignores empty values,
// and t.Setenv restores the originals on cleanup.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ALERTMANAGER_URL", "")
	t.Setenv("ADAM_PORT", "")
	t.Setenv("ADAM_ALERTS_DIR", "")
	t.Setenv("ADAM_HISTORY_FILE", "")
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAlertmanagerURL, cfg.Alertmanager.URL)
	assert.Equal(t, DefaultTimeout, cfg.Alertmanager.Timeout)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultAlertsDir, cfg.Storage.AlertsDir)
	assert.Equal(t, DefaultHistoryFile, cfg.Storage.HistoryFile)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALERTMANAGER_URL", "http://am.internal:9093")
	t.Setenv("ADAM_PORT", "8080")
	t.Setenv("ADAM_ALERTS_DIR", "/var/lib/adam/alerts")
	t.Setenv("ADAM_HISTORY_FILE", "/var/lib/adam/history.json")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "http://am.internal:9093", cfg.Alertmanager.URL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/var/lib/adam/alerts", cfg.Storage.AlertsDir)
	assert.Equal(t, "/var/lib/adam/history.json", cfg.Storage.HistoryFile)
}

func TestLoadConfigFromYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "adam.yaml")
	yaml := `
alertmanager:
  url: http://am.example.com:9093
  timeout: 10s
server:
  port: 9099
storage:
  alerts_dir: /tmp/adam-alerts
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://am.example.com:9093", cfg.Alertmanager.URL)
	assert.Equal(t, 10*time.Second, cfg.Alertmanager.Timeout)
	assert.Equal(t, 9099, cfg.Server.Port)
	assert.Equal(t, "/tmp/adam-alerts", cfg.Storage.AlertsDir)
	// Unset fields still get defaults.
	assert.Equal(t, DefaultHistoryFile, cfg.Storage.HistoryFile)
}

func TestLoadConfigRejectsBadTimeout(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "adam.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alertmanager:\n  timeout: soon\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestEnvWinsOverYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALERTMANAGER_URL", "http://env-wins:9093")

	path := filepath.Join(t.TempDir(), "adam.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alertmanager:\n  url: http://file:9093\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env-wins:9093", cfg.Alertmanager.URL)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAlertmanagerURL, cfg.Alertmanager.URL)
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	assert.NoError(t, ValidateConfig(cfg))

	bad := *cfg
	bad.Server.Port = -1
	assert.Error(t, ValidateConfig(&bad))

	bad = *cfg
	bad.Alertmanager.URL = ""
	assert.Error(t, ValidateConfig(&bad))

	bad = *cfg
	bad.Alertmanager.Timeout = 0
	assert.Error(t, ValidateConfig(&bad))
}
