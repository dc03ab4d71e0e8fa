package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(Path(dir), []byte(content), 0644))
}

func TestLoad(t *testing.T) {
	t.Run("no .pcparts.yaml returns defaults", func(t *testing.T) {
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("full .pcparts.yaml loads all values", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, `base_url: https://parts.example.com/api
timeout: 3s
log_level: debug
color: never
listen: 127.0.0.1:9000
allow_origin: http://localhost:3000
`)

		cfg, err := Load(dir)
		require.NoError(t, err)

		assert.Equal(t, "https://parts.example.com/api", cfg.BaseURL)
		assert.Equal(t, 3*time.Second, cfg.Timeout)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, ColorNever, cfg.Color)
		assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
		assert.Equal(t, "http://localhost:3000", cfg.AllowOrigin)
	})

	t.Run("partial .pcparts.yaml merges with defaults", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "base_url: http://10.0.0.5:8000\n")

		cfg, err := Load(dir)
		require.NoError(t, err)

		assert.Equal(t, "http://10.0.0.5:8000", cfg.BaseURL)
		assert.Equal(t, DefaultTimeout, cfg.Timeout)   // default
		assert.Equal(t, DefaultLogLevel, cfg.LogLevel) // default
		assert.Equal(t, DefaultListen, cfg.Listen)     // default
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "base_url: http://from-file:8000\ntimeout: 3s\n")
		t.Setenv("PCPARTS_BASE_URL", "http://from-env:8000")
		t.Setenv("PCPARTS_LOG_LEVEL", "info")

		cfg, err := Load(dir)
		require.NoError(t, err)

		assert.Equal(t, "http://from-env:8000", cfg.BaseURL)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 3*time.Second, cfg.Timeout, "unset variables leave the file value")
	})

	t.Run(".env file feeds the environment", func(t *testing.T) {
		// register cleanup for variables the .env file will set
		for _, k := range []string{"PCPARTS_LISTEN", "PCPARTS_COLOR"} {
			t.Setenv(k, "")
			os.Unsetenv(k)
		}
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DotEnvFile), []byte("PCPARTS_LISTEN=:9999\nPCPARTS_COLOR=never\n"), 0644))

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, ":9999", cfg.Listen)
		assert.Equal(t, ColorNever, cfg.Color)
	})

	t.Run("set variables win over .env", func(t *testing.T) {
		t.Setenv("PCPARTS_LISTEN", ":7000")
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DotEnvFile), []byte("PCPARTS_LISTEN=:9999\n"), 0644))

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, ":7000", cfg.Listen)
	})

	t.Run("environment timeout", func(t *testing.T) {
		t.Setenv("PCPARTS_TIMEOUT", "0")

		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, time.Duration(0), cfg.Timeout)
	})

	t.Run("malformed YAML", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "base_url: [unterminated\n")

		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse .pcparts.yaml")
	})

	t.Run("bad environment value", func(t *testing.T) {
		t.Setenv("PCPARTS_TIMEOUT", "soon")

		_, err := Load(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "environment")
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "color: rainbow\n")

		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "color must be one of")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"blank base url", func(c *Config) { c.BaseURL = "  " }, "base_url"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ""},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"always color", func(c *Config) { c.Color = ColorAlways }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLevel(t *testing.T) {
	cfg := DefaultConfig()
	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, lvl)
}
