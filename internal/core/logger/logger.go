package logger

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "qc-dashboard"

var global atomic.Pointer[zap.Logger]

// Init builds the process logger and installs it as the zap global.
// "production" logs JSON with ISO8601 timestamps; any other environment logs colored console
// lines. An empty level keeps the environment default; an unknown level is an error.
func Init(environment string, level string) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if environment == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.Fields(
		zap.String("service", serviceName),
		zap.String("env", environment),
	))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	global.Store(l)
	zap.ReplaceGlobals(l)
	return nil
}

// Get returns the process logger, or a no-op logger before Init.
func Get() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// Named returns a child logger tagged with a component name.
func Named(component string) *zap.Logger {
	return Get().Named(component)
}

// Sync flushes buffered entries.
func Sync() {
	if l := global.Load(); l != nil {
		_ = l.Sync()
	}
}
