// Package foundrykit is a lightweight meta-module that re-exports the most
// commonly used pieces of the foundation submodules. Applications with
// narrow needs should import the specific packages directly:
//   - github.com/foundrykit/foundrykit/core - configuration, env loading, errors
//   - github.com/foundrykit/foundrykit/sanitize - log and request redaction
//   - github.com/foundrykit/foundrykit/platform - OS and CPU detection
//   - github.com/foundrykit/foundrykit/profiling - logging self-metrics
//   - github.com/foundrykit/foundrykit/registry - component hub and announcement
//   - github.com/foundrykit/foundrykit/transport - transport factory registry
//   - github.com/foundrykit/foundrykit/runner - subprocess execution
package foundrykit

import (
	"github.com/foundrykit/foundrykit/core"
	"github.com/foundrykit/foundrykit/runner"
	"github.com/foundrykit/foundrykit/sanitize"
)

// Re-export core types
type (
	// Configuration types
	Config          = core.Config
	Option          = core.Option
	LoggingConfig   = core.LoggingConfig
	ProfilingConfig = core.ProfilingConfig
	RegistryConfig  = core.RegistryConfig
	RunnerConfig    = core.RunnerConfig
	SanitizeConfig  = core.SanitizeConfig

	// Interfaces
	Logger = core.Logger

	// Error types
	FoundationError = core.FoundationError

	// Runner types
	RunResult = runner.Result
	RunLine   = runner.Line
)

// Re-export error sentinels
var (
	ErrEnvVarNotFound       = core.ErrEnvVarNotFound
	ErrSecretFileEmpty      = core.ErrSecretFileEmpty
	ErrSecretFileUnreadable = core.ErrSecretFileUnreadable
	ErrInvalidConfiguration = core.ErrInvalidConfiguration
	ErrMissingConfiguration = core.ErrMissingConfiguration
	ErrTransportNotFound    = core.ErrTransportNotFound
	ErrProcessFailed        = core.ErrProcessFailed
	ErrTimeout              = core.ErrTimeout
)

// Re-export core functions
var (
	NewConfig     = core.NewConfig
	DefaultConfig = core.DefaultConfig
	GetEnv        = core.GetEnv
	BindEnv       = core.BindEnv

	// Configuration options
	WithServiceName   = core.WithServiceName
	WithNamespace     = core.WithNamespace
	WithLogLevel      = core.WithLogLevel
	WithLogFormat     = core.WithLogFormat
	WithRedisURL      = core.WithRedisURL
	WithAnnouncement  = core.WithAnnouncement
	WithProfiling     = core.WithProfiling
	WithRunnerTimeout = core.WithRunnerTimeout
	WithRedaction     = core.WithRedaction
	WithSensitiveKeys = core.WithSensitiveKeys
	WithConfigFile    = core.WithConfigFile

	// Env lookup options
	Required    = core.Required
	WithDefault = core.WithDefault
	FromFile    = core.FromFile
)

// Re-export sanitization entry points
var (
	SanitizeHeaders = sanitize.Headers
	SanitizeURI     = sanitize.URI
	SanitizeDict    = sanitize.Dict
)

// Re-export subprocess helpers backed by the shared default runner
var (
	Run    = runner.Run
	Shell  = runner.Shell
	Stream = runner.Stream
)
