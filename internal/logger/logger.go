// Package logger wraps zap with a small initialization helper.
package logger

import (
	"go.uber.org/zap"
)

type Logger struct {
	Log *zap.Logger
}

// New returns a logger that discards everything until Init is called.
func New() *Logger {
	return &Logger{
		Log: zap.NewNop(),
	}
}

// Init builds a production zap logger at the given level.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	zl, err := cfg.Build()
	if err != nil {
		return err
	}

	l.Log = zl
	return nil
}
