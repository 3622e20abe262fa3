package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config represents the server configuration
type Config struct {
	// Server configuration
	Server ServerConfig `envPrefix:"SERVER_"`

	// Map configuration
	Map MapConfig `envPrefix:"MAP_"`

	// Logging configuration
	Logging LoggingConfig `envPrefix:"LOG_"`

	// Metrics configuration
	Metrics MetricsConfig `envPrefix:"METRICS_"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// HTTP listen address
	Addr string `env:"ADDR" envDefault:":8080"`

	// Time allowed for in-flight requests on shutdown
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	// Read header timeout
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"10s"`
}

// MapConfig holds TTL map configuration
type MapConfig struct {
	// Default TTL for new entries; empty means entries never expire
	DefaultTTL string `env:"DEFAULT_TTL" envDefault:""`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: "debug", "info", "warn", "error"
	Level string `env:"LEVEL" envDefault:"info"`

	// Log format: "json", "text"
	Format string `env:"FORMAT" envDefault:"json"`

	// Log file path (empty for stdout)
	Output string `env:"OUTPUT" envDefault:""`

	// Enable log rotation
	Rotation bool `env:"ROTATION" envDefault:"true"`

	// Max log file size in MB
	MaxSize int `env:"MAX_SIZE" envDefault:"100"`

	// Number of backup files to keep
	MaxBackups int `env:"MAX_BACKUPS" envDefault:"7"`

	// Max age in days
	MaxAge int `env:"MAX_AGE" envDefault:"30"`

	// Entries kept in memory for /admin/logs and health checks
	RingSize int `env:"RING_SIZE" envDefault:"1000"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	// Expose Prometheus metrics
	Enabled bool `env:"ENABLED" envDefault:"true"`
}

// Load reads configuration from TTLMAP_* environment variables, then lets
// command line flags in args override them.
func Load(args []string) (*Config, error) {
	cfg := &Config{}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "TTLMAP_"}); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	fs := flag.NewFlagSet("ttlmap", flag.ContinueOnError)
	fs.StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "HTTP listen address")
	fs.StringVar(&cfg.Map.DefaultTTL, "default-ttl", cfg.Map.DefaultTTL, "Default TTL for new entries (empty: never expire)")
	fs.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.Logging.Format, "log-format", cfg.Logging.Format, "Log format (json, text)")
	fs.StringVar(&cfg.Logging.Output, "log-output", cfg.Logging.Output, "Log file path (empty: stdout)")
	fs.BoolVar(&cfg.Metrics.Enabled, "metrics", cfg.Metrics.Enabled, "Expose Prometheus metrics")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server address cannot be empty")
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	if _, _, err := c.Map.ParseDefaultTTL(); err != nil {
		return err
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Logging.RingSize < 0 {
		return fmt.Errorf("log ring size cannot be negative")
	}

	return nil
}

// ParseDefaultTTL returns the configured default TTL and whether one is set.
func (m MapConfig) ParseDefaultTTL() (time.Duration, bool, error) {
	if strings.TrimSpace(m.DefaultTTL) == "" || strings.EqualFold(m.DefaultTTL, "none") {
		return 0, false, nil
	}
	d, err := time.ParseDuration(m.DefaultTTL)
	if err != nil {
		return 0, false, fmt.Errorf("invalid default ttl %q: %w", m.DefaultTTL, err)
	}
	return d, true, nil
}
