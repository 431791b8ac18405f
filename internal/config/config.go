package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config models daywheel.yml.
type Config struct {
	Storage string `yaml:"storage"`
	Week    struct {
		StartDay string `yaml:"start_day"`
		DayCap   int    `yaml:"day_cap"`
	} `yaml:"week"`
	Timezone string `yaml:"timezone"`
	Server   struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	_ = yaml.Unmarshal([]byte(defaultTemplate), &cfg)
	return &cfg
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageFile:
	default:
		return fmt.Errorf("config.storage must be %q or %q", StorageSQLite, StorageFile)
	}
	switch c.Week.StartDay {
	case "monday", "sunday":
	default:
		return fmt.Errorf("config.week.start_day must be monday or sunday")
	}
	if c.Week.DayCap < 1 {
		return fmt.Errorf("config.week.day_cap must be >= 1")
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("config.timezone: %w", err)
		}
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("config.server.addr is required")
	}
	return nil
}

// StartWeekday maps week.start_day to a time.Weekday.
func (c *Config) StartWeekday() time.Weekday {
	if c.Week.StartDay == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

// Location resolves the configured timezone; empty means local time.
// All "today" anchors are derived in this single location so a session
// spanning midnight stays consistent.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "daywheel.yml")
}

// LoadOptional returns the default config if the file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates config from raw YAML bytes. Fields left
// out keep their defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GenerateDefault returns default config YAML for `dw config init`.
func GenerateDefault() string {
	return defaultTemplate
}

const defaultTemplate = `storage: sqlite

week:
  start_day: monday
  day_cap: 3

# IANA timezone name; empty uses the machine's local zone.
timezone: ""

server:
  addr: 127.0.0.1:8743
`
