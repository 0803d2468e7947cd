package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"treedit/internal/application"
)

const (
	DefaultHistoryLimit = 100
	DefaultPreviewWidth = 60
)

// Config holds user settings
type Config struct {
	HistoryLimit int    `yaml:"history_limit"`
	PreviewWidth int    `yaml:"preview_width"`
	ExpandOnLoad bool   `yaml:"expand_on_load"`
	StateDir     string `yaml:"state_dir"` // where view state is stored; empty for $XDG_DATA_HOME/treedit
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		HistoryLimit: DefaultHistoryLimit,
		PreviewWidth: DefaultPreviewWidth,
		ExpandOnLoad: true,
	}
}

// Path returns the config file location, $XDG_CONFIG_HOME/treedit/config.yaml
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "treedit", "config.yaml")
}

// Load reads settings from defaults, a .env file, the config file at path
// and TREEDIT_* environment variables, later sources winning.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if v := os.Getenv("TREEDIT_HISTORY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("TREEDIT_HISTORY_LIMIT: %w", err)
		}
		cfg.HistoryLimit = n
	}
	if v := os.Getenv("TREEDIT_PREVIEW_WIDTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("TREEDIT_PREVIEW_WIDTH: %w", err)
		}
		cfg.PreviewWidth = n
	}
	if v := os.Getenv("TREEDIT_EXPAND_ON_LOAD"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("TREEDIT_EXPAND_ON_LOAD: %w", err)
		}
		cfg.ExpandOnLoad = b
	}
	if v := os.Getenv("TREEDIT_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the editor cannot work with
func (c *Config) Validate() error {
	if c.HistoryLimit < 1 {
		return &application.ValidationError{Field: "history_limit", Message: "must be at least 1"}
	}
	if c.PreviewWidth < 8 {
		return &application.ValidationError{Field: "preview_width", Message: "must be at least 8"}
	}
	return nil
}

// SessionOptions converts the settings for application.NewSession
func (c *Config) SessionOptions() application.Options {
	return application.Options{
		HistoryLimit: c.HistoryLimit,
		PreviewWidth: c.PreviewWidth,
		ExpandOnLoad: c.ExpandOnLoad,
	}
}
