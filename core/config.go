package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the canteen client.
// It supports three-layer configuration priority:
//  1. Default values (lowest priority)
//  2. Environment variables (medium priority)
//  3. Functional options (highest priority)
//
// Example usage:
//
//	cfg, err := NewConfig(
//	    WithBaseURL("https://canteen.example.edu/api"),
//	    WithStorageProvider("redis"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
type Config struct {
	// Gateway configuration
	BaseURL        string        `json:"base_url" yaml:"base_url" env:"CANTEEN_BASE_URL"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout" env:"CANTEEN_REQUEST_TIMEOUT" default:"10s"`

	// Storage configuration (durable session mirror)
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Telemetry configuration (optional module)
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry"`

	// Logging configuration
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// DefaultLocale is used when the durable locale preference is absent.
	DefaultLocale string `json:"default_locale" yaml:"default_locale" env:"CANTEEN_LOCALE" default:"zh-CN"`
}

// StorageConfig selects and configures the durable storage backend.
// Supports in-memory storage (default) or Redis for deployments where the
// session has to survive the process, such as shared kiosk hosts.
type StorageConfig struct {
	Provider string `json:"provider" yaml:"provider" env:"CANTEEN_STORAGE_PROVIDER" default:"inmemory"`
	RedisURL string `json:"redis_url" yaml:"redis_url" env:"CANTEEN_REDIS_URL,REDIS_URL"`
}

// TelemetryConfig contains observability configuration for metrics and
// distributed tracing. This is an optional module - telemetry is only
// initialized when Enabled=true.
type TelemetryConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled" env:"CANTEEN_TELEMETRY_ENABLED" default:"false"`
	Endpoint    string `json:"endpoint" yaml:"endpoint" env:"CANTEEN_TELEMETRY_ENDPOINT,OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `json:"service_name" yaml:"service_name" env:"CANTEEN_TELEMETRY_SERVICE_NAME,OTEL_SERVICE_NAME"`
}

// LoggingConfig contains logging configuration.
// Supports structured (JSON) and human-readable (text) formats.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" env:"CANTEEN_LOG_LEVEL" default:"info"`
	Format string `json:"format" yaml:"format" env:"CANTEEN_LOG_FORMAT" default:"json"`
}

// Option is a functional option for configuring the client.
// Options are applied in order and can return an error if the configuration is invalid.
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults.
// These defaults can be overridden using functional options or environment variables.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        DefaultBaseURL,
		RequestTimeout: DefaultRequestTimeout,
		Storage: StorageConfig{
			Provider: "inmemory",
			RedisURL: "redis://localhost:6379",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "canteen-client",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		DefaultLocale: "zh-CN",
	}
}

// NewConfig creates a configuration by layering defaults, environment
// variables, and the supplied options, then validating the result.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables take precedence over defaults but are overridden
// by functional options.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("CANTEEN_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("CANTEEN_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CANTEEN_REQUEST_TIMEOUT: %w", ErrInvalidConfiguration)
		}
		c.RequestTimeout = d
	}
	if v := os.Getenv("CANTEEN_STORAGE_PROVIDER"); v != "" {
		c.Storage.Provider = strings.ToLower(v)
	}
	if v := firstEnv("CANTEEN_REDIS_URL", "REDIS_URL"); v != "" {
		c.Storage.RedisURL = v
	}
	if v := os.Getenv("CANTEEN_TELEMETRY_ENABLED"); v != "" {
		c.Telemetry.Enabled = parseBool(v)
	}
	if v := firstEnv("CANTEEN_TELEMETRY_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Telemetry.Endpoint = v
	}
	if v := firstEnv("CANTEEN_TELEMETRY_SERVICE_NAME", "OTEL_SERVICE_NAME"); v != "" {
		c.Telemetry.ServiceName = v
	}
	if v := os.Getenv("CANTEEN_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("CANTEEN_LOG_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv("CANTEEN_LOCALE"); v != "" {
		c.DefaultLocale = v
	}
	return nil
}

// LoadFromFile merges configuration from a JSON or YAML file.
// File values sit between defaults and environment variables, so an
// explicit env var still wins.
func (c *Config) LoadFromFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config file %q: %w", path, ErrInvalidConfiguration)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, ErrInvalidConfiguration)
		}
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, ErrInvalidConfiguration)
		}
	}
	return nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required: %w", ErrMissingConfiguration)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive: %w", ErrInvalidConfiguration)
	}
	switch c.Storage.Provider {
	case "inmemory", "redis":
	default:
		return fmt.Errorf("unknown storage provider %q: %w", c.Storage.Provider, ErrInvalidConfiguration)
	}
	if c.Storage.Provider == "redis" && c.Storage.RedisURL == "" {
		return fmt.Errorf("redis URL is required: %w", ErrMissingConfiguration)
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry endpoint is required: %w", ErrMissingConfiguration)
	}
	return nil
}

// WithBaseURL sets the backend base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) error {
		if url == "" {
			return fmt.Errorf("base URL cannot be empty: %w", ErrInvalidConfiguration)
		}
		c.BaseURL = strings.TrimRight(url, "/")
		return nil
	}
}

// WithRequestTimeout overrides the fixed gateway timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive: %w", ErrInvalidConfiguration)
		}
		c.RequestTimeout = d
		return nil
	}
}

// WithStorageProvider selects the durable storage backend ("inmemory" or "redis").
func WithStorageProvider(provider string) Option {
	return func(c *Config) error {
		c.Storage.Provider = strings.ToLower(provider)
		return nil
	}
}

// WithRedisURL sets the Redis connection URL for the redis storage provider.
func WithRedisURL(url string) Option {
	return func(c *Config) error {
		c.Storage.RedisURL = url
		return nil
	}
}

// WithTelemetry enables telemetry export to the given OTLP endpoint.
func WithTelemetry(endpoint string) Option {
	return func(c *Config) error {
		c.Telemetry.Enabled = true
		c.Telemetry.Endpoint = endpoint
		return nil
	}
}

// WithLogging sets the log level and format.
func WithLogging(level, format string) Option {
	return func(c *Config) error {
		c.Logging.Level = strings.ToLower(level)
		c.Logging.Format = strings.ToLower(format)
		return nil
	}
}

// WithDefaultLocale sets the locale used when no preference is persisted.
func WithDefaultLocale(locale string) Option {
	return func(c *Config) error {
		c.DefaultLocale = locale
		return nil
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
