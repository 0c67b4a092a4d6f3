package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the config file nor the environment sets a value.
const (
	DefaultAlertmanagerURL = "http://localhost:9093"
	DefaultPort            = 5067
	DefaultAlertsDir       = "alerts"
	DefaultHistoryFile     = "form_history.json"
	DefaultTimeout         = 30 * time.Second
)

// LoadConfig loads configuration from an optional YAML file, applies
// environment overrides, fills defaults, and validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := loadYAML(path, cfg); err != nil {
				return nil, fmt.Errorf("loading %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadYAML loads a YAML file into a struct
func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

// applyEnv overlays environment variables onto the loaded config.
// Environment wins over the file so container deployments can override
// a baked-in config without editing it.
func applyEnv(cfg *Config) {
	if v := os.Getenv("ALERTMANAGER_URL"); v != "" {
		cfg.Alertmanager.URL = v
	}
	if v := os.Getenv("ADAM_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ADAM_ALERTS_DIR"); v != "" {
		cfg.Storage.AlertsDir = v
	}
	if v := os.Getenv("ADAM_HISTORY_FILE"); v != "" {
		cfg.Storage.HistoryFile = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Alertmanager.URL == "" {
		cfg.Alertmanager.URL = DefaultAlertmanagerURL
	}
	if cfg.Alertmanager.Timeout == 0 {
		cfg.Alertmanager.Timeout = DefaultTimeout
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Storage.AlertsDir == "" {
		cfg.Storage.AlertsDir = DefaultAlertsDir
	}
	if cfg.Storage.HistoryFile == "" {
		cfg.Storage.HistoryFile = DefaultHistoryFile
	}
}

// ValidateConfig validates the configuration
func ValidateConfig(cfg *Config) error {
	if cfg.Alertmanager.URL == "" {
		return fmt.Errorf("alertmanager url is required")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Alertmanager.Timeout <= 0 {
		return fmt.Errorf("alertmanager timeout must be positive, got %s", cfg.Alertmanager.Timeout)
	}
	if cfg.Storage.AlertsDir == "" {
		return fmt.Errorf("alerts directory is required")
	}
	return nil
}
