// Package config loads and watches service configuration.
//
// Configuration comes from an optional YAML file plus TOME_-prefixed
// environment variables. Secrets are referenced as ${ENV_VAR} in the file and
// resolved at use time, so the config file itself can be committed.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/tomehq/tome/internal/backend"
	"github.com/tomehq/tome/internal/store"
)

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("server", defaults.Server)
	viper.SetDefault("backend", defaults.Backend)
	viper.SetDefault("store", defaults.Store)
	viper.SetDefault("pipeline", defaults.Pipeline)

	// Environment variables with TOME_ prefix.
	viper.SetEnvPrefix("TOME")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.tome")
	}

	// The config file is optional; defaults plus env vars are enough.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// envVarPattern matches ${ENV_VAR} references.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// Validate checks that the configuration is complete enough to start the
// service. Missing credentials or store address are startup-fatal: no
// pipeline run may be attempted without them.
func (c *Config) Validate() error {
	switch c.Backend.Type {
	case backend.OpenRouterName, backend.OpenAIName:
	default:
		return fmt.Errorf("backend.type must be %q or %q, got %q",
			backend.OpenRouterName, backend.OpenAIName, c.Backend.Type)
	}
	if ResolveEnvVars(c.Backend.APIKey) == "" {
		if c.Backend.APIKey != "" {
			return fmt.Errorf("backend.api_key is required (set %s)", c.Backend.APIKey)
		}
		return fmt.Errorf("backend.api_key is required")
	}
	if c.Store.Addr == "" {
		return fmt.Errorf("store.addr is required")
	}
	return nil
}

// ToBackendConfig converts the backend section for client construction,
// resolving ${ENV_VAR} references in the API key.
func (c *Config) ToBackendConfig() backend.Config {
	return backend.Config{
		APIKey:       ResolveEnvVars(c.Backend.APIKey),
		BaseURL:      c.Backend.BaseURL,
		DefaultModel: c.Backend.Model,
		Timeout:      c.Backend.Timeout(),
		MaxRetries:   c.Backend.MaxRetries,
		RetryDelay:   c.Backend.RetryDelayDuration(),
	}
}

// ToStoreConfig converts the store section for the Redis store, resolving
// ${ENV_VAR} references in the password.
func (c *Config) ToStoreConfig() store.RedisConfig {
	return store.RedisConfig{
		Addr:     c.Store.Addr,
		Password: ResolveEnvVars(c.Store.Password),
		DB:       c.Store.DB,
	}
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Tome configuration
# Secrets use ${ENV_VAR} syntax to reference environment variables.
# Set these in your shell: export OPENROUTER_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
