package config

import (
	"time"

	"github.com/tomehq/tome/internal/backend"
	"github.com/tomehq/tome/internal/planner"
)

// Config is the top-level service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Backend  BackendConfig  `mapstructure:"backend" yaml:"backend"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// BackendConfig holds completion backend settings.
type BackendConfig struct {
	Type           string  `mapstructure:"type" yaml:"type"`
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url"`
	APIKey         string  `mapstructure:"api_key" yaml:"api_key"`
	Model          string  `mapstructure:"model" yaml:"model"`
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxRetries     int     `mapstructure:"max_retries" yaml:"max_retries"`
	RetryDelayMS   int     `mapstructure:"retry_delay_ms" yaml:"retry_delay_ms"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// Timeout returns the per-request timeout as a duration.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// RetryDelayDuration returns the base retry delay as a duration.
func (b BackendConfig) RetryDelayDuration() time.Duration {
	return time.Duration(b.RetryDelayMS) * time.Millisecond
}

// StoreConfig holds Redis connection settings.
type StoreConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
}

// PipelineConfig holds book generation tuning knobs.
type PipelineConfig struct {
	Blueprints    bool `mapstructure:"blueprints" yaml:"blueprints"`
	TokensPerPage int  `mapstructure:"tokens_per_page" yaml:"tokens_per_page"`
	WordsPerPage  int  `mapstructure:"words_per_page" yaml:"words_per_page"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Backend: BackendConfig{
			Type:           backend.OpenRouterName,
			BaseURL:        "https://openrouter.ai/api/v1",
			APIKey:         "${OPENROUTER_API_KEY}",
			Model:          "anthropic/claude-sonnet-4",
			Temperature:    planner.DefaultTemperature,
			MaxRetries:     4,
			RetryDelayMS:   1000,
			TimeoutSeconds: 120,
		},
		Store: StoreConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		},
		Pipeline: PipelineConfig{
			Blueprints:    true,
			TokensPerPage: planner.DefaultTokensPerPage,
			WordsPerPage:  planner.DefaultWordsPerPage,
		},
	}
}
