package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level pricepanel configuration.
type Config struct {
	Page    PageConfig    `yaml:"page"`
	Backend BackendConfig `yaml:"backend"`
	Watch   WatchConfig   `yaml:"watch"`
	Browser BrowserConfig `yaml:"browser"`
	Store   StoreConfig   `yaml:"store"`
	Status  StatusConfig  `yaml:"status"`
}

// PageConfig names the product page to observe.
type PageConfig struct {
	URL string `yaml:"url"`
}

// BackendConfig points at the price-comparison backend.
type BackendConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// WatchConfig tunes the navigation watcher and refresh cycle.
type WatchConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	Debounce     time.Duration `yaml:"debounce"`
	RetryDelay   time.Duration `yaml:"retry_delay"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	Remote          string        `yaml:"remote"`
	Headful         bool          `yaml:"headful"`
	NavigateTimeout time.Duration `yaml:"navigate_timeout"`
}

// StoreConfig locates the shared SQLite database. Empty path disables
// persistence.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// StatusConfig exposes the local status server. Empty addr disables it.
type StatusConfig struct {
	Addr string `yaml:"addr"`
}

func (c *Config) applyDefaults() {
	if c.Backend.URL == "" {
		c.Backend.URL = "http://localhost:8710"
	}
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}
