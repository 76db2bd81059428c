package common

import (
	"fmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"strings"
	"sync"
)

var (
	rootMu sync.RWMutex
	root   = zap.NewNop()
)

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// CreateLogger returns a child logger named after the package using it.
// Until InitLoggers is called all loggers discard their output.
func CreateLogger(pkgName string) *zap.Logger {
	rootMu.RLock()
	defer rootMu.RUnlock()
	return root.Named(pkgName)
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers configures the root logger. level is one of debug, info,
// warn and error, format is console or json.
func InitLoggers(level, format string) error {
	config, err := NewLoggingConfig(level, format)
	if err != nil {
		return err
	}

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	rootMu.Lock()
	defer rootMu.Unlock()
	root = logger
	return nil
}

// NewLoggingConfig creates the zap configuration for the given level and format
func NewLoggingConfig(level, format string) (zap.Config, error) {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return zap.Config{}, err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)

	switch strings.ToLower(format) {
	case "console", "":
		config.Development = true
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.EncoderConfig.CallerKey = ""
	case "json":
		config.Encoding = "json"
	default:
		return zap.Config{}, fmt.Errorf("invalid log format: %s. must be one of console, json", format)
	}

	// the benchmark writes reports to stdout, keep logs apart
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	return config, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// parseLogLevel converts a string level to a zap level
func parseLogLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel, nil
	case "info", "":
		return zap.InfoLevel, nil
	case "warning", "warn":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	default:
		return zap.InfoLevel, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}
