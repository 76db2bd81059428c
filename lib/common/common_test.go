package common

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"testing"
	"time"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zap.DebugLevel, false},
		{"INFO", zap.InfoLevel, false},
		{"", zap.InfoLevel, false},
		{"warning", zap.WarnLevel, false},
		{"warn", zap.WarnLevel, false},
		{"error", zap.ErrorLevel, false},
		{"verbose", zap.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lvl, err := parseLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, lvl)
		})
	}
}

func TestNewLoggingConfig(t *testing.T) {
	config, err := NewLoggingConfig("debug", "json")
	require.NoError(t, err)
	assert.Equal(t, "json", config.Encoding)
	assert.Equal(t, []string{"stderr"}, config.OutputPaths)
	assert.True(t, config.Level.Enabled(zap.DebugLevel))

	config, err = NewLoggingConfig("warn", "console")
	require.NoError(t, err)
	assert.Equal(t, "console", config.Encoding)
	assert.False(t, config.Level.Enabled(zap.InfoLevel))

	_, err = NewLoggingConfig("info", "xml")
	assert.Error(t, err)
	_, err = NewLoggingConfig("loud", "json")
	assert.Error(t, err)
}

func TestCreateLogger(t *testing.T) {
	// before initialisation loggers are usable but silent
	assert.NotNil(t, CreateLogger("test"))

	require.NoError(t, InitLoggers("error", "json"))
	logger := CreateLogger("harness")
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.ErrorLevel))

	assert.Error(t, InitLoggers("nope", "json"))
}

func TestBenchConfigString(t *testing.T) {
	config := DefaultBenchConfig()
	out := config.String()

	assert.Contains(t, out, "ARCHIVES")
	assert.Contains(t, out, "protobuf")
	assert.Contains(t, out, "capnp")
	assert.Contains(t, out, "Resolution            : full")
	assert.Contains(t, out, "Output                : stdout")
	assert.NotContains(t, out, "Float Policy")
	assert.NotContains(t, out, "Seed")

	config.Validate = true
	config.Randomize = true
	config.Seed = 42
	config.Resolution = time.Millisecond
	config.Skip = []string{"bytes", "children"}
	config.Output = "report.json"
	out = config.String()

	assert.Contains(t, out, "Float Policy          : bitwise")
	assert.Contains(t, out, "Seed                  : 42")
	assert.Contains(t, out, "Resolution            : 1ms")
	assert.Contains(t, out, "Skip                  : bytes, children")
	assert.Contains(t, out, "Output                : report.json")
}
