package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/foundrykit/foundrykit/core"
)

func TestNewDefaults(t *testing.T) {
	log, err := New(core.DefaultConfig())
	require.NoError(t, err)
	assert.NotNil(t, log)

	// nil config falls back to defaults
	log, err = New(nil)
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNewTextFormat(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "stderr"

	log, err := New(cfg)
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Logging.Level = "loud"

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidConfiguration))
	assert.Contains(t, err.Error(), "loud")
}

func TestNewInvalidFormat(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Logging.Format = "xml"

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidConfiguration))
	// the offending format value surfaces in the error text
	assert.Contains(t, err.Error(), "xml")
}

func TestFromZapFields(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(obsCore))

	log.Info("request handled", map[string]interface{}{
		"status": 200,
		"method": "GET",
	})
	log.Warn("slow request", nil)
	log.Debug("detail", map[string]interface{}{"attempt": 1})
	log.Error("request failed", map[string]interface{}{"status": 502})

	entries := logs.All()
	require.Len(t, entries, 4)

	assert.Equal(t, "request handled", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	// fields are emitted in sorted key order
	require.Len(t, entries[0].Context, 2)
	assert.Equal(t, "method", entries[0].Context[0].Key)
	assert.Equal(t, "status", entries[0].Context[1].Key)

	assert.Empty(t, entries[1].Context)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestFromZapNil(t *testing.T) {
	log := FromZap(nil)
	assert.NotPanics(t, func() {
		log.Info("ignored", nil)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"info", zapcore.InfoLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
