package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit_StderrOnly(t *testing.T) {
	logger, err := Init(Config{Level: zapcore.InfoLevel})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("hello")
}

func TestInit_WithFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "toolman.log")

	logger, err := Init(Config{Level: zapcore.DebugLevel, FilePath: logPath})
	require.NoError(t, err)

	logger.Info("written to file")
	_ = logger.Sync()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")

	info, err := os.Stat(logPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestInit_UnwritableFileFallsBackToStderr(t *testing.T) {
	logger, err := Init(Config{
		Level:    zapcore.InfoLevel,
		FilePath: filepath.Join(t.TempDir(), "missing", "nested", "toolman.log"),
	})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("still works")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			level, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	require.NotNil(t, logger)
	logger.Error("discarded")
}
