package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/undoredo/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" warn ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := NewWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("transaction filed", zap.String("history", "undo"))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "transaction filed", entry["msg"])
	assert.Equal(t, "undo", entry["history"])
}

func TestNewConsoleAtomicLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, level, err := NewWithWriter(config.LoggingConfig{Level: "warn", Format: "console"}, &buf)
	require.NoError(t, err)

	logger.Info("first")
	assert.Empty(t, buf.String())

	level.SetLevel(zapcore.DebugLevel)
	logger.Debug("second")
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "second")
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, _, err := NewWithWriter(config.LoggingConfig{Level: "loud", Format: "json"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, _, err = NewWithWriter(config.LoggingConfig{Level: "info", Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNewFromDefaults(t *testing.T) {
	logger, level, err := New(config.Default().Logging)
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.Equal(t, zapcore.InfoLevel, level.Level())
}
