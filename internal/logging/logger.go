package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration
type Config struct {
	// Level sets the minimum log level (debug, info, warn, error)
	Level zapcore.Level
	// FilePath is the path to the log file (empty to disable file logging)
	FilePath string
}

// Init builds a JSON structured logger. It always logs to stderr (stdout is
// reserved for command output and the provider loading display) and
// optionally to a file when FilePath is set. A file that cannot be opened
// downgrades to stderr-only logging rather than failing.
func Init(cfg Config) (*zap.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	stderrCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		cfg.Level,
	)

	cores := []zapcore.Core{stderrCore}

	if cfg.FilePath != "" {
		fileCore, err := newFileCore(cfg.FilePath, encoderConfig, cfg.Level)
		if err != nil {
			tempLogger := zap.New(stderrCore)
			tempLogger.Warn("Failed to initialize file logging, continuing with stderr only",
				zap.String("log_file", cfg.FilePath),
				zap.Error(err),
			)
		} else {
			cores = append(cores, fileCore)
		}
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, nil
}

// newFileCore creates a file-based logging core
func newFileCore(logFilePath string, encoderConfig zapcore.EncoderConfig, level zapcore.Level) (zapcore.Core, error) {
	cleanPath, err := filepath.Abs(filepath.Clean(logFilePath))
	if err != nil {
		return nil, fmt.Errorf("invalid log file path: %w", err)
	}

	// Owner-only read/write; log files may contain provider arguments.
	file, err := os.OpenFile(cleanPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(file),
		level,
	), nil
}

// NopLogger returns a logger that discards everything. Intended for tests.
func NopLogger() *zap.Logger {
	return zap.NewNop()
}

// ParseLevel converts a string log level to zapcore.Level
func ParseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	err := l.UnmarshalText([]byte(level))
	return l, err
}
