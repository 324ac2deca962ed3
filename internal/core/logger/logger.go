// Package logger holds the process-wide zap logger. Scrape runs are long
// and chatty, so everything funnels through one configured instance instead
// of per-package loggers.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *zap.Logger

// Init builds the global logger. Production gets JSON output; every other
// environment gets colored console output for following a run locally.
// An unknown level name keeps the preset's default level.
func Init(environment, level string) error {
	var cfg zap.Config
	switch environment {
	case "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if parsed, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	built, err := cfg.Build()
	if err != nil {
		return err
	}

	global = built
	return nil
}

// Get returns the global logger, or a no-op logger before Init has run so
// callers never have to nil-check.
func Get() *zap.Logger {
	if global == nil {
		return zap.NewNop()
	}
	return global
}

// Sync flushes buffered entries. Called on shutdown.
func Sync() {
	if global != nil {
		global.Sync()
	}
}
