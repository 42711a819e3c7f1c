package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration. Flags override file values.
type Config struct {
	Port   int    `yaml:"port"`
	DBPath string `yaml:"db_path"`
}

// LoadConfig loads configuration from a yaml file, falling back to
// defaults when no path is given.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		Port:   8080,
		DBPath: "laytime.db",
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Port <= 0 {
		return cfg, fmt.Errorf("config: port must be positive, got %d", cfg.Port)
	}
	if cfg.DBPath == "" {
		return cfg, fmt.Errorf("config: db_path required")
	}
	return cfg, nil
}
