package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	lscp "github.com/noisegate/go-lscp"
)

// Config represents the samplerctl configuration
type Config struct {
	// Sampler server address (host:port)
	Server string `yaml:"server"`

	// Control transaction timeout
	Timeout time.Duration `yaml:"timeout"`

	// Channel table auto-refresh interval for the shell and watch views
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// Table style: rounded, light or plain
	TableStyle string `yaml:"table_style,omitempty"`

	// History file for the interactive shell
	HistoryFile string `yaml:"history_file,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server:          fmt.Sprintf("localhost:%d", lscp.DefaultPort),
		Timeout:         lscp.DefaultTimeout,
		RefreshInterval: 2 * time.Second,
		TableStyle:      "rounded",
	}
}

// LoadConfig loads configuration from file, overlaying it onto the defaults
// so missing keys keep their default values
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to file, creating parent directories as
// needed
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays SAMPLERCTL_SERVER and SAMPLERCTL_TIMEOUT from the
// environment; values set there win over the file
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("SAMPLERCTL_SERVER"); v != "" {
		c.Server = v
	}
	if v := os.Getenv("SAMPLERCTL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("failed to parse SAMPLERCTL_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	return nil
}

// DefaultPath resolves the config file location: $SAMPLERCTL_CONFIG when
// set, otherwise <user-config-dir>/samplerctl/config.yaml
func DefaultPath() string {
	if p := os.Getenv("SAMPLERCTL_CONFIG"); p != "" {
		return p
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "samplerctl.yaml"
	}
	return filepath.Join(base, "samplerctl", "config.yaml")
}

// HistoryPath returns where the interactive shell keeps its history
func (c *Config) HistoryPath() string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".samplerctl_history"
	}
	return filepath.Join(home, ".samplerctl_history")
}
