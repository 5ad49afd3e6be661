// Package config loads ceobserve configuration from YAML files.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iw2rmb/ceobserve/cdpview"
	"github.com/iw2rmb/ceobserve/observer"
)

// Config is the top-level ceobserve configuration.
type Config struct {
	Observer ObserverConfig `yaml:"observer"`
	Browser  BrowserConfig  `yaml:"browser"`
	Log      LogConfig      `yaml:"log"`
}

// ObserverConfig tunes the poll loop.
type ObserverConfig struct {
	PollInterval  time.Duration `yaml:"poll_interval"` // negative disables polling
	PositionDelay time.Duration `yaml:"position_delay"`
}

// BrowserConfig selects the page to watch.
type BrowserConfig struct {
	ControlURL       string        `yaml:"control_url"` // empty launches Chrome
	URL              string        `yaml:"url"`
	DocumentSelector string        `yaml:"document_selector"`
	LoadTimeout      time.Duration `yaml:"load_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if _, err := parseLevel(cfg.Log.Level); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Observer.PollInterval == 0 {
		c.Observer.PollInterval = observer.DefaultPollInterval
	}
	if c.Observer.PositionDelay <= 0 {
		c.Observer.PositionDelay = observer.DefaultPositionDelay
	}
	if c.Browser.DocumentSelector == "" {
		c.Browser.DocumentSelector = cdpview.DefaultSelector
	}
	if c.Browser.LoadTimeout <= 0 {
		c.Browser.LoadTimeout = 30 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ObserverSettings returns the observer settings with the given logger. The
// clock is left to the caller.
func (c *Config) ObserverSettings(log *slog.Logger) observer.Config {
	interval := c.Observer.PollInterval
	if interval < 0 {
		interval = observer.NoPolling
	}
	return observer.Config{
		PollInterval:  interval,
		PositionDelay: c.Observer.PositionDelay,
		Logger:        log,
	}
}

// SessionConfig returns the browser session settings.
func (c *Config) SessionConfig(log *slog.Logger) cdpview.SessionConfig {
	return cdpview.SessionConfig{
		ControlURL:  c.Browser.ControlURL,
		URL:         c.Browser.URL,
		LoadTimeout: c.Browser.LoadTimeout,
		Logger:      log,
	}
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	l, _ := parseLevel(c.Log.Level)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", s)
}
