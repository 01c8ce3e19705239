// Package config resolves server settings from an optional YAML file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Log levels accepted by LOG_LEVEL.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const minSecretKeyLength = 32

var headerNamePattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

var insecureSecretKeys = []string{
	"change_me_in_production",
	"replace_with_at_least_32_random_characters",
}

// Config holds the server settings. ProxyHeader names the header carrying
// the client address behind a reverse proxy, e.g. X-Forwarded-For.
type Config struct {
	SecretKey   string `yaml:"secret_key"`
	DBPath      string `yaml:"db_path"`
	Port        int    `yaml:"port"`
	Timezone    string `yaml:"timezone"`
	LogLevel    string `yaml:"log_level"`
	ProxyHeader string `yaml:"proxy_header"`
}

func NewDefaultConfig() *Config {
	return &Config{
		DBPath:   filepath.Join("data", "flowlog.db"),
		Port:     8080,
		Timezone: "UTC",
		LogLevel: LogLevelInfo,
	}
}

// Load starts from the defaults, overlays the YAML file when path is set,
// then overlays non-empty environment variables and validates the result.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadStorage resolves the same sources as Load but only validates the
// database location. Maintenance commands use it so they run without the
// server secret.
func LoadStorage(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := validation.ValidateStruct(cfg, validation.Field(&cfg.DBPath, validation.Required)); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.SecretKey = getEnv("SECRET_KEY", c.SecretKey)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.Timezone = getEnv("TZ", c.Timezone)
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.ProxyHeader = getEnv("PROXY_HEADER", c.ProxyHeader)

	if raw := strings.TrimSpace(os.Getenv("PORT")); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", raw, err)
		}
		c.Port = port
	}
	return nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SecretKey,
			validation.Required,
			validation.Length(minSecretKeyLength, 0),
			validation.By(notPlaceholderSecret),
		),
		validation.Field(&c.DBPath, validation.Required),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.LogLevel, validation.Required, validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)),
		validation.Field(&c.Timezone, validation.Required, validation.By(loadableTimezone)),
		validation.Field(&c.ProxyHeader, validation.Match(headerNamePattern)),
	)
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Location falls back to UTC for a zone that fails to load; Validate has
// already rejected those for configs produced by Load.
func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

func notPlaceholderSecret(value interface{}) error {
	secret, _ := value.(string)
	for _, placeholder := range insecureSecretKeys {
		if strings.EqualFold(strings.TrimSpace(secret), placeholder) {
			return errors.New("must not be a placeholder value")
		}
	}
	return nil
}

func loadableTimezone(value interface{}) error {
	name, _ := value.(string)
	if _, err := time.LoadLocation(name); err != nil {
		return errors.New("must be a valid IANA time zone")
	}
	return nil
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
