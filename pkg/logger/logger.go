// Package logger provides the production implementation of core.Logger
// backed by go.uber.org/zap. The zero-dependency core.NoOpLogger remains
// available for tests and for embedding contexts that bring their own
// logging.
package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/foundrykit/foundrykit/core"
)

// zapLogger adapts a *zap.Logger to the core.Logger interface.
// Field maps are flattened into zap fields with keys sorted for
// deterministic output.
type zapLogger struct {
	log *zap.Logger
}

// New builds a core.Logger from the logging section of cfg. The logger
// carries the service name as a standing field on every entry.
//
// Format "json" emits one JSON object per line; "text" emits a
// human-readable console encoding. Output is "stdout", "stderr", or a
// file path.
func New(cfg *core.Config) (core.Logger, error) {
	if cfg == nil {
		cfg = core.DefaultConfig()
	}

	level, err := parseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.MessageKey = "message"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(cfg.Logging.TimeFormat)
	encCfg.EncodeDuration = zapcore.StringDurationEncoder

	encoding := "json"
	switch strings.ToLower(cfg.Logging.Format) {
	case "", "json":
	case "text", "console":
		encoding = "console"
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		return nil, &core.FoundationError{
			Op:      "logger.New",
			Kind:    "config",
			ID:      cfg.Logging.Format,
			Message: fmt.Sprintf("unknown log format %q", cfg.Logging.Format),
			Err:     core.ErrInvalidConfiguration,
		}
	}

	output := cfg.Logging.Output
	if output == "" {
		output = "stdout"
	}

	zapCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          encoding,
		EncoderConfig:     encCfg,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     true,
		DisableStacktrace: true,
	}

	z, err := zapCfg.Build()
	if err != nil {
		return nil, &core.FoundationError{
			Op:      "logger.New",
			Kind:    "config",
			Message: fmt.Sprintf("failed to build logger: %v", err),
			Err:     core.ErrInvalidConfiguration,
		}
	}

	return &zapLogger{log: z.With(zap.String("service", cfg.ServiceName))}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() core.Logger {
	return &core.NoOpLogger{}
}

// FromZap wraps an existing *zap.Logger. Useful when the host
// application already owns a configured zap instance.
func FromZap(z *zap.Logger) core.Logger {
	if z == nil {
		return &core.NoOpLogger{}
	}
	return &zapLogger{log: z}
}

func (l *zapLogger) Info(msg string, fields map[string]interface{}) {
	l.log.Info(msg, zapFields(fields)...)
}

func (l *zapLogger) Error(msg string, fields map[string]interface{}) {
	l.log.Error(msg, zapFields(fields)...)
}

func (l *zapLogger) Warn(msg string, fields map[string]interface{}) {
	l.log.Warn(msg, zapFields(fields)...)
}

func (l *zapLogger) Debug(msg string, fields map[string]interface{}) {
	l.log.Debug(msg, zapFields(fields)...)
}

// Sync flushes buffered entries. Callers should defer this before exit.
func (l *zapLogger) Sync() error {
	return l.log.Sync()
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, &core.FoundationError{
			Op:      "logger.New",
			Kind:    "config",
			ID:      level,
			Message: fmt.Sprintf("unknown log level %q", level),
			Err:     core.ErrInvalidConfiguration,
		}
	}
}

func zapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
