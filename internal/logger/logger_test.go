package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/rezonia/invoice-generator/internal/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" warn ", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := logger.ParseLevel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}

	_, err := logger.ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	for _, cfg := range []logger.Config{
		{Level: "debug"},
		{Level: "info", JSON: true},
		{Level: "warn", Color: true},
	} {
		log, err := logger.New(cfg)
		require.NoError(t, err)
		require.NotNil(t, log)

		level, _ := logger.ParseLevel(cfg.Level)
		assert.True(t, log.Core().Enabled(level))
		assert.False(t, log.Core().Enabled(level-1))
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := logger.New(logger.Config{Level: "verbose"})
	assert.Error(t, err)
}
