package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when CONFIG_FILE is not set. A missing file is not an error.
const DefaultConfigFile = "config.yml"

// Config holds the service configuration
type Config struct {
	Port             string        `yaml:"port"`
	MongoURL         string        `yaml:"mongo_url"`
	DBName           string        `yaml:"db_name"`
	APIPrefix        string        `yaml:"api_prefix"`
	LogLevel         string        `yaml:"log_level"`
	LogFormat        string        `yaml:"log_format"`
	RabbitMQURL      string        `yaml:"rabbitmq_url"`
	TelemetryEnabled bool          `yaml:"telemetry_enabled"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Port:            "8001",
		APIPrefix:       "/api",
		LogLevel:        "info",
		LogFormat:       "json",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads the file named by CONFIG_FILE (or config.yml), then applies
// environment overrides.
func Load() (Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = DefaultConfigFile
	}
	return LoadFrom(path)
}

// LoadFrom layers defaults, the YAML file at path and environment variables.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	cfg.APIPrefix = normalizePrefix(cfg.APIPrefix)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		cfg.Port = v
	}
	if v, ok := os.LookupEnv("MONGO_URL"); ok && v != "" {
		cfg.MongoURL = v
	}
	if v, ok := os.LookupEnv("DB_NAME"); ok && v != "" {
		cfg.DBName = v
	}
	if v, ok := os.LookupEnv("API_PREFIX"); ok {
		cfg.APIPrefix = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok && v != "" {
		cfg.LogFormat = v
	}
	if v, ok := os.LookupEnv("RABBITMQ_URL"); ok {
		cfg.RabbitMQURL = v
	}
	if v, ok := os.LookupEnv("TELEMETRY_ENABLED"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TELEMETRY_ENABLED %q: %w", v, err)
		}
		cfg.TelemetryEnabled = enabled
	}
	if v, ok := os.LookupEnv("SHUTDOWN_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", v, err)
		}
		cfg.ShutdownTimeout = d
	}
	return nil
}

// normalizePrefix turns "api", "/api/" and "/api" into "/api". An empty
// prefix mounts routes at the root.
func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}

// Validate checks the settings the service cannot start without.
func (c Config) Validate() error {
	if c.MongoURL == "" {
		return fmt.Errorf("MONGO_URL is required")
	}
	if c.DBName == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
