package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hochfrequenz/cycle-timer/internal/domain"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Timer         TimerConfig         `toml:"timer" yaml:"timer"`
	Notifications NotificationsConfig `toml:"notifications" yaml:"notifications"`
	UI            UIConfig            `toml:"ui" yaml:"ui"`
}

// TimerConfig holds countdown settings
type TimerConfig struct {
	DefaultMinutes int      `toml:"default_minutes" yaml:"default_minutes"`
	TickInterval   Duration `toml:"tick_interval" yaml:"tick_interval"`
}

// NotificationsConfig holds notification settings
type NotificationsConfig struct {
	Desktop      bool   `toml:"desktop" yaml:"desktop"`
	SlackWebhook string `toml:"slack_webhook" yaml:"slack_webhook"`
}

// UIConfig holds terminal UI settings
type UIConfig struct {
	AltScreen    bool `toml:"alt_screen" yaml:"alt_screen"`
	HistoryLimit int  `toml:"history_limit" yaml:"history_limit"`
}

// Duration is a time.Duration written as "1s", "500ms" in config files
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Timer: TimerConfig{
			DefaultMinutes: 25,
			TickInterval:   Duration{time.Second},
		},
		Notifications: NotificationsConfig{
			Desktop: true,
		},
		UI: UIConfig{
			AltScreen:    true,
			HistoryLimit: 50,
		},
	}
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Timer.DefaultMinutes < domain.MinMinutes || c.Timer.DefaultMinutes > domain.MaxMinutes {
		return fmt.Errorf("timer.default_minutes must be between %d and %d, got %d",
			domain.MinMinutes, domain.MaxMinutes, c.Timer.DefaultMinutes)
	}
	if c.Timer.TickInterval.Duration < 100*time.Millisecond {
		return fmt.Errorf("timer.tick_interval must be at least 100ms, got %s", c.Timer.TickInterval)
	}
	if c.UI.HistoryLimit < 0 {
		return fmt.Errorf("ui.history_limit must not be negative")
	}
	return nil
}

// Load reads configuration from a TOML or YAML file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Marshal encodes the config in the format implied by path
func (c *Config) Marshal(path string) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(c)
	}
	return toml.Marshal(c)
}

// Save writes the config to path, creating parent directories
func (c *Config) Save(path string) error {
	data, err := c.Marshal(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// DefaultConfigPath returns the default config file location
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cycle-timer", "config.toml")
}
