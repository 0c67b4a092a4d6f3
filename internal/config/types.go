package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete ADAM configuration
type Config struct {
	Alertmanager AlertmanagerConfig `yaml:"alertmanager"`
	Server       ServerConfig       `yaml:"server"`
	Storage      StorageConfig      `yaml:"storage"`
}

// AlertmanagerConfig describes the outbound alerting backend
type AlertmanagerConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// UnmarshalYAML accepts timeouts in human-readable form ("30s", "1m"),
// which yaml.v3 cannot decode into time.Duration on its own.
func (a *AlertmanagerConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	a.URL = raw.URL
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("parsing alertmanager timeout %q: %w", raw.Timeout, err)
		}
		a.Timeout = d
	}
	return nil
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port int `yaml:"port"`
}

// StorageConfig contains persisted-state locations
type StorageConfig struct {
	AlertsDir   string `yaml:"alerts_dir"`
	HistoryFile string `yaml:"history_file"`
}
