// Package config loads pcparts settings from .pcparts.yaml and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the name of the config file, looked up in the working
	// directory. pcparts never writes it.
	FileName = ".pcparts.yaml"

	// DotEnvFile, if present next to FileName, is exported into the
	// environment before overrides are read. Variables already set win.
	DotEnvFile = ".env"

	// EnvPrefix prefixes every environment override, e.g. PCPARTS_BASE_URL.
	EnvPrefix = "PCPARTS"

	DefaultBaseURL     = "http://localhost:8000"
	DefaultTimeout     = 15 * time.Second
	DefaultLogLevel    = "warn"
	DefaultColor       = ColorAuto
	DefaultListen      = ":8000"
	DefaultAllowOrigin = "http://localhost:5173"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the merged configuration.
type Config struct {
	// BaseURL is the single root every service request is built from.
	BaseURL string `yaml:"base_url" envconfig:"BASE_URL"`

	// Timeout bounds each command's requests. Zero means no limit.
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`

	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	// Color is one of auto, always or never.
	Color string `yaml:"color" envconfig:"COLOR"`

	// Listen and AllowOrigin apply to `pcparts serve` only.
	Listen      string `yaml:"listen" envconfig:"LISTEN"`
	AllowOrigin string `yaml:"allow_origin" envconfig:"ALLOW_ORIGIN"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		LogLevel:    DefaultLogLevel,
		Color:       DefaultColor,
		Listen:      DefaultListen,
		AllowOrigin: DefaultAllowOrigin,
	}
}

// Load reads dir/.pcparts.yaml if it exists and applies environment
// overrides, including those from dir/.env. Partial files are merged with defaults.
func Load(dir string) (*Config, error) {
	cfg := DefaultConfig()

	path := Path(dir)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	if err := loadDotEnv(dir); err != nil {
		return nil, err
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the config file path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

func loadDotEnv(dir string) error {
	path := filepath.Join(dir, DotEnvFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to read %s: %w", DotEnvFile, err)
	}
	return nil
}

// Validate checks values that cannot be caught by the YAML decoder.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be one of %s, %s, %s; got %q", ColorAuto, ColorAlways, ColorNever, c.Color)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return lvl, nil
}
