package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default values for configuration fields.
const (
	DefaultManifestPath = "./migrations.yml"
	DefaultLogLevel     = "info"
)

// Config holds the application configuration loaded from file, environment, and flags.
type Config struct {
	DatabaseURL  string
	ManifestPath string
	LogLevel     string
}

// yamlConfig is the raw YAML file representation.
type yamlConfig struct {
	DatabaseURL  string `yaml:"database_url"`
	ManifestPath string `yaml:"manifest"`
	LogLevel     string `yaml:"log_level"`
}

// New returns a Config populated with default values.
func New() *Config {
	return &Config{
		ManifestPath: DefaultManifestPath,
		LogLevel:     DefaultLogLevel,
	}
}

// Load reads a YAML configuration file and returns a Config.
// If allowMissing is true and the file does not exist, defaults are returned.
func Load(path string, allowMissing bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return New(), nil
		}

		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg := New()

	if raw.DatabaseURL != "" {
		cfg.DatabaseURL = raw.DatabaseURL
	}

	if raw.ManifestPath != "" {
		cfg.ManifestPath = raw.ManifestPath
	}

	if raw.LogLevel != "" {
		cfg.LogLevel = raw.LogLevel
	}

	return cfg, nil
}

// MergeEnv overrides config fields from RUNONCE_* environment variables.
func MergeEnv(cfg *Config) {
	if v := os.Getenv("RUNONCE_DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}

	if v := os.Getenv("RUNONCE_MANIFEST"); v != "" {
		cfg.ManifestPath = v
	}

	if v := os.Getenv("RUNONCE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
