// Package config provides configuration structures and loading logic for ordersight.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the root configuration structure for the ordersight service.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Query     QueryConfig     `mapstructure:"query"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Geo       GeoConfig       `mapstructure:"geo"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// AppConfig defines application-level settings such as host and port.
type AppConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
}

// QueryConfig defines connection settings for the external analytics query engine.
type QueryConfig struct {
	URL      string `mapstructure:"url"`
	TokenEnv string `mapstructure:"token_env"`
	Token    string `mapstructure:"-"`
	Timeout  string `mapstructure:"timeout"`
}

// CacheConfig defines the optional Redis result cache. The cache is disabled
// when no address is configured.
type CacheConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      string `mapstructure:"ttl"`
}

// StorageConfig defines the local SQLite store for saved views and the query
// audit log.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// GeoConfig defines the optional coordinate table override. When tables_path
// points at a JSON file its city/country tables replace the built-in ones.
type GeoConfig struct {
	TablesPath string `mapstructure:"tables_path"`
}

// DashboardConfig defines dashboard defaults: fallback lookback expressions
// (relative offsets such as "2h" or "7d") and the base URL used to construct
// trace viewer links.
type DashboardConfig struct {
	OrdersLookback     string `mapstructure:"orders_lookback"`
	GeoLookback        string `mapstructure:"geo_lookback"`
	TraceViewerBaseURL string `mapstructure:"trace_viewer_base_url"`
}

// GetTimeoutDuration parses the configured query timeout into a time.Duration.
func (c *QueryConfig) GetTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// GetTTLDuration parses the configured cache TTL into a time.Duration.
func (c *CacheConfig) GetTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// Enabled reports whether a cache endpoint is configured.
func (c *CacheConfig) Enabled() bool {
	return c.Addr != ""
}

// OrdersFrom returns the default relative "from" expression for order queries.
func (c *DashboardConfig) OrdersFrom() string {
	lookback := c.OrdersLookback
	if lookback == "" {
		lookback = "2h"
	}
	return "now-" + lookback
}

// GeoFrom returns the default relative "from" expression for geo queries.
func (c *DashboardConfig) GeoFrom() string {
	lookback := c.GeoLookback
	if lookback == "" {
		lookback = "7d"
	}
	return "now-" + lookback
}

// Load loads configuration from config.yaml or environment variables
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/ordersight")

	// Allow environment variables to override config
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	viper.SetDefault("app.host", "0.0.0.0")
	viper.SetDefault("app.port", 8080)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("query.timeout", "30s")
	viper.SetDefault("query.token_env", "DQL_API_TOKEN")
	viper.SetDefault("cache.ttl", "30s")
	viper.SetDefault("storage.path", "./data/ordersight.db")
	viper.SetDefault("dashboard.orders_lookback", "2h")
	viper.SetDefault("dashboard.geo_lookback", "7d")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Get the query engine token from the environment if token_env is set
	if cfg.Query.TokenEnv != "" {
		cfg.Query.Token = os.Getenv(cfg.Query.TokenEnv)
	}

	return &cfg, nil
}
