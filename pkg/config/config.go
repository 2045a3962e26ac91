package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is the top-level configuration for matchcore: only the
// region, matching-engine, resting-store, logging, and metrics
// concerns this core actually owns (see DESIGN.md for the fuller configuration surface
// this was narrowed from, and why).
type Config struct {
	Region   RegionConfig   `json:"region" yaml:"region"`
	Matching MatchingConfig `json:"matching" yaml:"matching"`
	RestStore RestStoreConfig `json:"rest_store" yaml:"rest_store"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
	Metrics  MetricsConfig  `json:"metrics" yaml:"metrics"`
}

// RegionConfig controls the shared mapped region file.
type RegionConfig struct {
	Path string `json:"path" yaml:"path"`
}

// MatchingConfig controls the engine loop.
type MatchingConfig struct {
	Symbols                []string      `json:"symbols" yaml:"symbols"`
	IdleBackoff            time.Duration `json:"idle_backoff" yaml:"idle_backoff"`
	MaxConsecutiveDiscards int           `json:"max_consecutive_discards" yaml:"max_consecutive_discards"`
	CarryMarketRemainder   bool          `json:"carry_market_remainder" yaml:"carry_market_remainder"`
	ShutdownJoinTimeout    time.Duration `json:"shutdown_join_timeout" yaml:"shutdown_join_timeout"`
}

// RestStoreConfig selects and configures the resting-order side-store
// backend. Backend is "memory" or "gorm".
type RestStoreConfig struct {
	Backend      string        `json:"backend" yaml:"backend"`
	DSN          string        `json:"dsn" yaml:"dsn"`
	QueueDepth   int           `json:"queue_depth" yaml:"queue_depth"`
	Workers      int           `json:"workers" yaml:"workers"`
	CacheTTL     time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
}

// LoggingConfig contains logging configuration, carried from the
// teacher unchanged (level/format/output remain meaningful regardless
// of which surface is built on top of this core).
type LoggingConfig struct {
	Level            string `json:"level" yaml:"level"`
	Format           string `json:"format" yaml:"format"`
	Output           string `json:"output" yaml:"output"`
	EnableColor      bool   `json:"enable_color" yaml:"enable_color"`
	EnableCaller     bool   `json:"enable_caller" yaml:"enable_caller"`
	EnableStacktrace bool   `json:"enable_stacktrace" yaml:"enable_stacktrace"`
}

// MetricsConfig contains Prometheus exposition configuration.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Address string `json:"address" yaml:"address"`
	Port    int    `json:"port" yaml:"port"`
	Path    string `json:"path" yaml:"path"`
}

// Configuration errors.
var (
	ErrInvalidRegionPath   = errors.New("region path must not be empty")
	ErrNoSymbolsConfigured = errors.New("at least one symbol must be configured")
	ErrInvalidRestStore    = errors.New("rest_store.backend must be \"memory\" or \"gorm\"")
	ErrMissingGormDSN      = errors.New("rest_store.dsn is required when backend is \"gorm\"")
)

// Validate checks the fields this core actually depends on.
func (c *Config) Validate() error {
	if c.Region.Path == "" {
		return ErrInvalidRegionPath
	}
	if len(c.Matching.Symbols) == 0 {
		return ErrNoSymbolsConfigured
	}
	switch c.RestStore.Backend {
	case "memory":
	case "gorm":
		if c.RestStore.DSN == "" {
			return ErrMissingGormDSN
		}
	default:
		return ErrInvalidRestStore
	}
	return nil
}

// MetricsAddr returns the address the Prometheus exporter listens on.
func (c *Config) MetricsAddr() string {
	return fmt.Sprintf("%s:%d", c.Metrics.Address, c.Metrics.Port)
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Region: RegionConfig{Path: "matchcore.region"},
		Matching: MatchingConfig{
			Symbols:                []string{"BTC-USD", "ETH-USD", "BNB-USD", "ADA-USD", "SOL-USD"},
			IdleBackoff:            200 * time.Microsecond,
			MaxConsecutiveDiscards: 100,
			CarryMarketRemainder:   false,
			ShutdownJoinTimeout:    5 * time.Second,
		},
		RestStore: RestStoreConfig{
			Backend:    "memory",
			QueueDepth: 4096,
			Workers:    4,
			CacheTTL:   30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Address: "0.0.0.0",
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

// LoadConfig loads configuration from a YAML file, falling back to
// DefaultConfig if configPath is empty or the file does not exist.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
