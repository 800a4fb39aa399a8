package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort     = 8080
	defaultLogLevel = "info"
)

// Config holds the studio server settings.
type Config struct {
	Port     int    `yaml:"port"`
	SiteURL  string `yaml:"site_url"`
	SeedFile string `yaml:"seed_file"`
	LogLevel string `yaml:"log_level"`
	Dev      bool   `yaml:"dev"`
}

// NewConfig builds a Config from defaults, then the YAML file named by
// STUDIO_CONFIG (if set), then the STUDIO_* environment variables.
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:     defaultPort,
		LogLevel: defaultLogLevel,
	}

	if path := os.Getenv("STUDIO_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("STUDIO_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid STUDIO_PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("STUDIO_SITE_URL"); v != "" {
		c.SiteURL = v
	}
	if v := os.Getenv("STUDIO_SEED_FILE"); v != "" {
		c.SeedFile = v
	}
	if v := os.Getenv("STUDIO_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("STUDIO_DEV"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid STUDIO_DEV %q: %w", v, err)
		}
		c.Dev = dev
	}
	return nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}
