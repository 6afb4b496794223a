// Package config provides YAML-based configuration loading for Workdeck.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// DefaultMaxCardBytes caps file card content when the config does not
// override it.
const DefaultMaxCardBytes = 10 << 20

// scheduleParser accepts standard five-field cron expressions plus
// descriptors like @hourly and @every 30s.
var scheduleParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Config is the top-level Workdeck configuration, loaded from config.yaml.
type Config struct {
	DataDir      string       `yaml:"data_dir"`
	MaxCardBytes int64        `yaml:"max_card_bytes"`
	Server       ServerConfig `yaml:"server"`
	Watch        WatchConfig  `yaml:"watch"`
}

// ServerConfig holds listen settings for the local HTTP API.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// WatchConfig controls the external-change polling loop.
type WatchConfig struct {
	Schedule string `yaml:"schedule"`
}

// Load reads a YAML config file from path and returns a validated Config.
// A missing file is not an error: Workdeck runs fine without one, so Load
// returns the default configuration in that case.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Parse(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DatabasePath returns the location of the SQLite database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "workdeck.db")
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() error {
	if c.DataDir == "" || strings.HasPrefix(c.DataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("config: resolve home directory: %w", err)
		}
		if c.DataDir == "" {
			c.DataDir = filepath.Join(home, ".workdeck")
		} else {
			c.DataDir = filepath.Join(home, c.DataDir[2:])
		}
	}
	if c.MaxCardBytes == 0 {
		c.MaxCardBytes = DefaultMaxCardBytes
	}
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 7333
	}
	if c.Watch.Schedule == "" {
		c.Watch.Schedule = "@every 30s"
	}
	return nil
}

// validate checks that all fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.MaxCardBytes < 0 {
		errs = append(errs, "max_card_bytes must not be negative")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if _, err := scheduleParser.Parse(c.Watch.Schedule); err != nil {
		errs = append(errs, fmt.Sprintf("watch.schedule %q: %v", c.Watch.Schedule, err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
