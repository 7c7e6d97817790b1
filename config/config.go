// Package config loads process configuration from config/config.json,
// STUDIO_* environment variables and built-in defaults, in that order of
// increasing precedence for env over file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"product_draft_studio/generator"
	"product_draft_studio/logger"
)

const (
	// DefaultPath is read when no --config is given; a missing file is fine.
	DefaultPath = "config/config.json"
	EnvPrefix   = "STUDIO"
)

// LLMConfig 改写功能的大模型配置，provider 为空时不启用改写。
type LLMConfig struct {
	Provider string `mapstructure:"provider" json:"provider,omitempty"`
	Model    string `mapstructure:"model" json:"model,omitempty"`
	APIKey   string `mapstructure:"api_key" json:"api_key,omitempty"`
	BaseURL  string `mapstructure:"base_url" json:"base_url,omitempty"`
}

// Settings converts to the generator's LLM settings.
func (c LLMConfig) Settings() generator.LLMSettings {
	return generator.LLMSettings{
		Provider: c.Provider,
		Model:    c.Model,
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
	}
}

type LogConfig struct {
	Level     string `mapstructure:"level" json:"level"`
	Format    string `mapstructure:"format" json:"format"`
	AddSource bool   `mapstructure:"add_source" json:"add_source"`
}

// Config holds all process options.
type Config struct {
	DataDir     string        `mapstructure:"data_dir" json:"data_dir"`
	InMemory    bool          `mapstructure:"in_memory" json:"in_memory"`
	ServerAddr  string        `mapstructure:"server_addr" json:"server_addr"`
	ExportDir   string        `mapstructure:"export_dir" json:"export_dir"`
	CORSOrigins []string      `mapstructure:"cors_origins" json:"cors_origins"`
	SessionTTL  time.Duration `mapstructure:"session_ttl" json:"session_ttl"`
	Log         LogConfig     `mapstructure:"log" json:"log"`
	LLM         LLMConfig     `mapstructure:"llm" json:"llm"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		DataDir:     "./data",
		ServerAddr:  ":8080",
		ExportDir:   "./exports",
		CORSOrigins: []string{"*"},
		SessionTTL:  30 * time.Minute,
		Log:         LogConfig{Level: "info", Format: logger.FormatText},
	}
}

// SetDefaults registers every key on v so env overrides apply to all of them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("in_memory", d.InMemory)
	v.SetDefault("server_addr", d.ServerAddr)
	v.SetDefault("export_dir", d.ExportDir)
	v.SetDefault("cors_origins", d.CORSOrigins)
	v.SetDefault("session_ttl", d.SessionTTL)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.add_source", d.Log.AddSource)
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
}

// Load reads path (DefaultPath when empty) into v and decodes the result.
// An explicit path must exist; the default one is optional.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	v.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil || explicit {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("stat config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields viper cannot.
func (c Config) Validate() error {
	if !c.InMemory && c.DataDir == "" {
		return errors.New("config: data_dir is required unless in_memory is set")
	}
	switch strings.ToLower(c.Log.Format) {
	case logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	switch c.LLM.Provider {
	case "", "mock", "openai":
	case "deepseek":
		if c.LLM.BaseURL == "" {
			return errors.New("config: llm provider deepseek requires base_url")
		}
	default:
		return fmt.Errorf("config: llm provider %s not supported", c.LLM.Provider)
	}
	return nil
}

// Logger builds the logger described by c.Log.
func (c Config) Logger() logger.Config {
	return logger.Config{
		Format:    c.Log.Format,
		Level:     c.Log.Level,
		AddSource: c.Log.AddSource,
	}
}
