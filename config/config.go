package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"mercadolivre-sync/internal/types"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Fetch   FetchConfig
	Backend BackendConfig
	Sync    SyncConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

// FetchConfig holds listing page fetch configuration
type FetchConfig struct {
	Timeout            time.Duration `mapstructure:"timeout"`
	RequestDelay       time.Duration `mapstructure:"request_delay"`
	MaxRetries         int           `mapstructure:"max_retries"`
	UseHeadlessBrowser bool          `mapstructure:"use_headless_browser"`
	UserAgent          string        `mapstructure:"user_agent"`
}

// BackendConfig holds the catalog backend location and credentials
type BackendConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// SyncConfig holds synchronization configuration
type SyncConfig struct {
	Concurrency          int  `mapstructure:"concurrency"`
	CompareCatalogFields bool `mapstructure:"compare_catalog_fields"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("MLSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	defaults := types.DefaultConfig()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")

	v.SetDefault("fetch.timeout", defaults.Timeout)
	v.SetDefault("fetch.request_delay", defaults.RequestDelay)
	v.SetDefault("fetch.max_retries", defaults.MaxRetries)
	v.SetDefault("fetch.use_headless_browser", defaults.UseHeadlessBrowser)
	v.SetDefault("fetch.user_agent", defaults.UserAgent)

	v.SetDefault("backend.base_url", "https://api.casa-moreno.com")
	v.SetDefault("backend.username", "")
	v.SetDefault("backend.password", "")
	v.SetDefault("backend.timeout", 30*time.Second)

	v.SetDefault("sync.concurrency", 1)
	v.SetDefault("sync.compare_catalog_fields", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got: %s", config.Fetch.Timeout)
	}
	if config.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch max_retries must not be negative, got: %d", config.Fetch.MaxRetries)
	}
	if config.Backend.BaseURL == "" {
		return fmt.Errorf("catalog backend URL is required (set MLSYNC_BACKEND_BASE_URL)")
	}
	if config.Sync.Concurrency < 1 {
		return fmt.Errorf("sync concurrency must be at least 1, got: %d", config.Sync.Concurrency)
	}
	return nil
}

// RequireCredentials reports an error when the backend credentials are missing.
// Only synchronization needs them.
func (c *Config) RequireCredentials() error {
	if c.Backend.Username == "" || c.Backend.Password == "" {
		return fmt.Errorf("catalog credentials are required (set MLSYNC_BACKEND_USERNAME and MLSYNC_BACKEND_PASSWORD)")
	}
	return nil
}

// FetcherConfig converts the fetch section into the fetcher configuration
func (c *Config) FetcherConfig() *types.Config {
	config := types.DefaultConfig()
	config.Timeout = c.Fetch.Timeout
	config.RequestDelay = c.Fetch.RequestDelay
	config.MaxRetries = c.Fetch.MaxRetries
	config.UseHeadlessBrowser = c.Fetch.UseHeadlessBrowser
	config.MaxConcurrentRequests = c.Sync.Concurrency
	if c.Fetch.UserAgent != "" {
		config.UserAgent = c.Fetch.UserAgent
	}
	return config
}
