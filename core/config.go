package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for all derived foundrykit environment variables.
const EnvPrefix = "FOUNDRY"

// Config holds the runtime configuration for the foundation library.
// It supports three-layer configuration priority:
//  1. Default values (lowest priority)
//  2. Environment variables (medium priority)
//  3. Functional options (highest priority)
//
// Fields resolve their environment variables through BindEnv: explicit
// env tags win, everything else derives {EnvPrefix}_{SECTION}_{FIELD}.
// Any value may use the file://<path> secret indirection.
//
// Example usage:
//
//	cfg, err := core.NewConfig(
//	    core.WithServiceName("ingest-gw"),
//	    core.WithRedisURL("redis://localhost:6379"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
type Config struct {
	// Core identification
	ServiceName string `json:"service_name" yaml:"service_name" env:"FOUNDRY_SERVICE_NAME" default:"foundrykit"`
	Namespace   string `json:"namespace" yaml:"namespace" env:"FOUNDRY_NAMESPACE" default:"default"`

	// Logging configuration
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Profiling metrics configuration
	Profiling ProfilingConfig `json:"profiling" yaml:"profiling"`

	// Component registry / announcement configuration
	Registry RegistryConfig `json:"registry" yaml:"registry"`

	// Subprocess runner configuration
	Runner RunnerConfig `json:"runner" yaml:"runner"`

	// Sanitization configuration
	Sanitize SanitizeConfig `json:"sanitize" yaml:"sanitize"`
}

// LoggingConfig contains logging configuration.
// Supports structured (JSON) and human-readable (text) formats.
type LoggingConfig struct {
	Level      string `json:"level" yaml:"level" env:"FOUNDRY_LOG_LEVEL" default:"info"`
	Format     string `json:"format" yaml:"format" env:"FOUNDRY_LOG_FORMAT" default:"json"`
	Output     string `json:"output" yaml:"output" env:"FOUNDRY_LOG_OUTPUT" default:"stdout"`
	TimeFormat string `json:"time_format" yaml:"time_format" env:"FOUNDRY_LOG_TIME_FORMAT" default:"2006-01-02T15:04:05.999999999Z07:00"`
}

// ProfilingConfig controls the self-observability counters of the
// logging subsystem and their OpenTelemetry export.
type ProfilingConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled" env:"FOUNDRY_PROFILING_ENABLED" default:"true"`
	MeterName string `json:"meter_name" yaml:"meter_name" env:"FOUNDRY_PROFILING_METER" default:"foundrykit.profiling"`
}

// RegistryConfig contains component registry and Redis announcement
// configuration. Announcement is optional; the in-process hub works
// without Redis.
type RegistryConfig struct {
	AnnounceEnabled   bool          `json:"announce_enabled" yaml:"announce_enabled" env:"FOUNDRY_ANNOUNCE_ENABLED" default:"false"`
	RedisURL          string        `json:"redis_url" yaml:"redis_url" env:"FOUNDRY_REDIS_URL,REDIS_URL"`
	TTL               time.Duration `json:"ttl" yaml:"ttl" env:"FOUNDRY_ANNOUNCE_TTL" default:"30s"`
	HeartbeatInterval time.Duration `json:"heartbeat_interval" yaml:"heartbeat_interval" env:"FOUNDRY_ANNOUNCE_HEARTBEAT" default:"10s"`
}

// RunnerConfig contains subprocess runner configuration. DefaultTimeout
// is forwarded to commands that did not set their own; zero disables it.
type RunnerConfig struct {
	DefaultTimeout time.Duration `json:"default_timeout" yaml:"default_timeout" env:"FOUNDRY_RUNNER_TIMEOUT" default:"0s"`
	ShellPath      string        `json:"shell_path" yaml:"shell_path" env:"FOUNDRY_RUNNER_SHELL" default:"/bin/sh"`
}

// SanitizeConfig extends the built-in sensitive key lists used when
// redacting headers, URIs, and dictionaries for logging.
type SanitizeConfig struct {
	ExtraSensitiveKeys []string `json:"extra_sensitive_keys" yaml:"extra_sensitive_keys" env:"FOUNDRY_SANITIZE_KEYS"`
	Redaction          string   `json:"redaction" yaml:"redaction" env:"FOUNDRY_SANITIZE_REDACTION" default:"[REDACTED]"`
}

// Option is a functional option for building a Config.
// Options are applied in order and can return an error if the
// configuration is invalid.
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults.
// Defaults match the default:"..." tags so that a Config built without
// environment access behaves identically to one built from an empty
// environment.
func DefaultConfig() *Config {
	return &Config{
		ServiceName: "foundrykit",
		Namespace:   "default",
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Output:     "stdout",
			TimeFormat: time.RFC3339Nano,
		},
		Profiling: ProfilingConfig{
			Enabled:   true,
			MeterName: "foundrykit.profiling",
		},
		Registry: RegistryConfig{
			AnnounceEnabled:   false,
			TTL:               30 * time.Second,
			HeartbeatInterval: 10 * time.Second,
		},
		Runner: RunnerConfig{
			DefaultTimeout: 0,
			ShellPath:      "/bin/sh",
		},
		Sanitize: SanitizeConfig{
			Redaction: "[REDACTED]",
		},
	}
}

// LoadFromEnv loads configuration from environment variables via BindEnv.
// Environment variables take precedence over defaults but are overridden
// by functional options.
func (c *Config) LoadFromEnv() error {
	if err := BindEnv(c, WithPrefix(EnvPrefix)); err != nil {
		return err
	}
	return nil
}

// LoadFromFile loads configuration from a JSON or YAML file.
// File settings override whatever the Config currently holds.
func (c *Config) LoadFromFile(path string) error {
	cleanPath := filepath.Clean(path)

	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config file extension %s: %w", ext, ErrInvalidConfiguration)
	}

	if !filepath.IsAbs(cleanPath) {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		cleanPath = filepath.Join(wd, cleanPath)
	}

	data, err := os.ReadFile(filepath.Clean(cleanPath)) // #nosec G304 -- path is validated
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", cleanPath, err)
	}

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", ErrInvalidConfiguration)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", ErrInvalidConfiguration)
		}
	}

	return nil
}

// Validate checks if the configuration is valid and returns an error if not.
//
// Validation rules:
//   - Service name is required
//   - Redis URL is required when announcement is enabled
//   - Announcement TTL must exceed the heartbeat interval
//   - Runner timeout must not be negative
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return &FoundationError{
			Op:      "Config.Validate",
			Kind:    "config",
			Message: "service name is required",
			Err:     ErrMissingConfiguration,
		}
	}

	if c.Registry.AnnounceEnabled && c.Registry.RedisURL == "" {
		return &FoundationError{
			Op:      "Config.Validate",
			Kind:    "config",
			Message: "redis URL is required when registry announcement is enabled",
			Err:     ErrMissingConfiguration,
		}
	}

	if c.Registry.AnnounceEnabled && c.Registry.TTL <= c.Registry.HeartbeatInterval {
		return &FoundationError{
			Op:      "Config.Validate",
			Kind:    "config",
			Message: fmt.Sprintf("announcement TTL %s must exceed heartbeat interval %s", c.Registry.TTL, c.Registry.HeartbeatInterval),
			Err:     ErrInvalidConfiguration,
		}
	}

	if c.Runner.DefaultTimeout < 0 {
		return &FoundationError{
			Op:      "Config.Validate",
			Kind:    "config",
			Message: fmt.Sprintf("negative runner timeout: %s", c.Runner.DefaultTimeout),
			Err:     ErrInvalidConfiguration,
		}
	}

	return nil
}

// Functional Options

// WithServiceName sets the service name used in logging and announcements
func WithServiceName(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return &FoundationError{
				Op:      "WithServiceName",
				Kind:    "config",
				Message: "service name must not be empty",
				Err:     ErrInvalidConfiguration,
			}
		}
		c.ServiceName = name
		return nil
	}
}

// WithNamespace sets the logical namespace used to key announcements
func WithNamespace(namespace string) Option {
	return func(c *Config) error {
		c.Namespace = namespace
		return nil
	}
}

// WithLogLevel sets the minimum logging level ("debug", "info", "warn", "error")
func WithLogLevel(level string) Option {
	return func(c *Config) error {
		c.Logging.Level = level
		return nil
	}
}

// WithLogFormat sets the logging output format ("json" or "text")
func WithLogFormat(format string) Option {
	return func(c *Config) error {
		c.Logging.Format = format
		return nil
	}
}

// WithRedisURL sets the Redis connection URL and enables registry announcement.
// Format: redis://[user:password@]host:port/db
func WithRedisURL(url string) Option {
	return func(c *Config) error {
		c.Registry.RedisURL = url
		c.Registry.AnnounceEnabled = true
		return nil
	}
}

// WithAnnouncement enables or disables Redis registry announcement
func WithAnnouncement(enabled bool) Option {
	return func(c *Config) error {
		c.Registry.AnnounceEnabled = enabled
		return nil
	}
}

// WithProfiling enables or disables the profiling counters
func WithProfiling(enabled bool) Option {
	return func(c *Config) error {
		c.Profiling.Enabled = enabled
		return nil
	}
}

// WithRunnerTimeout sets the default timeout applied to subprocesses
// that did not configure their own
func WithRunnerTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout < 0 {
			return &FoundationError{
				Op:      "WithRunnerTimeout",
				Kind:    "config",
				Message: fmt.Sprintf("negative runner timeout: %s", timeout),
				Err:     ErrInvalidConfiguration,
			}
		}
		c.Runner.DefaultTimeout = timeout
		return nil
	}
}

// WithRedaction sets the token substituted for sensitive values
func WithRedaction(token string) Option {
	return func(c *Config) error {
		c.Sanitize.Redaction = token
		return nil
	}
}

// WithSensitiveKeys appends additional sensitive key names to the
// built-in redaction lists
func WithSensitiveKeys(keys ...string) Option {
	return func(c *Config) error {
		c.Sanitize.ExtraSensitiveKeys = append(c.Sanitize.ExtraSensitiveKeys, keys...)
		return nil
	}
}

// WithConfigFile loads configuration from a JSON or YAML file.
// File configuration is applied before later options, so options can
// override file settings.
func WithConfigFile(path string) Option {
	return func(c *Config) error {
		return c.LoadFromFile(path)
	}
}

// NewConfig creates a new configuration with the provided options.
// Configuration is applied in the following order:
//  1. Default values from DefaultConfig()
//  2. Environment variables via LoadFromEnv()
//  3. Functional options (highest priority)
//  4. Validation via Validate()
//
// Returns an error if any option fails or if the final configuration is invalid.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env config: %w", err)
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
