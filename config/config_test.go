package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"data_dir": "/var/lib/studio",
		"session_ttl": "5m",
		"log": {"level": "debug", "format": "json"},
		"llm": {"provider": "mock"}
	}`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/studio", cfg.DataDir)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "mock", cfg.LLM.Provider)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"server_addr": ":9000"}`)
	t.Setenv("STUDIO_SERVER_ADDR", ":7000")
	t.Setenv("STUDIO_LLM_PROVIDER", "mock")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.ServerAddr)
	assert.Equal(t, "mock", cfg.LLM.Provider)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"deepseek without base url", func(c *Config) { c.LLM.Provider = "deepseek" }, true},
		{"deepseek with base url", func(c *Config) { c.LLM.Provider = "deepseek"; c.LLM.BaseURL = "https://api.deepseek.com" }, false},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "claude" }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"no data dir", func(c *Config) { c.DataDir = "" }, true},
		{"in memory without data dir", func(c *Config) { c.DataDir = ""; c.InMemory = true }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
