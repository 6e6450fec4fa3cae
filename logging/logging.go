// Package logging wraps go.uber.org/zap behind a minimal interface, grounded
// on evdnx-gots/logger/logger.go's Logger shape (Info/Warn/Error taking
// structured fields) but backed directly by zap rather than an intermediate
// wrapper library, since zap is the dependency the module already carries.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field re-exports zap.Field so callers do not need their own zap import
// just to build structured log lines.
type Field = zap.Field

// Logger is the minimal structured-logging surface every component that can
// reject, correct, or emit a decision logs through. Never fmt.Printf.
type Logger interface {
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Sync() error
}

type zapLogger struct {
	inner *zap.Logger
}

func (l *zapLogger) Info(msg string, fields ...Field)  { l.inner.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.inner.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.inner.Error(msg, fields...) }
func (l *zapLogger) Sync() error                       { return l.inner.Sync() }

// New builds a production JSON logger at info level, suitable for the
// `goldcore run`/`replay` commands.
func New() (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &zapLogger{inner: l}, nil
}

// NewDevelopment builds a console-friendly logger for local CLI use.
func NewDevelopment() (Logger, error) {
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return &zapLogger{inner: l}, nil
}

// Structured field helpers re-exported for convenience, matching the
// teacher's re-export idiom.
var (
	String   = zap.String
	Int      = zap.Int
	Float64  = zap.Float64
	Any      = zap.Any
	Err      = zap.Error
	Duration = zap.Duration
	Bool     = zap.Bool
)

// NopLogger returns a Logger that discards everything, used in tests that
// need a Logger but don't assert on log output.
func NopLogger() Logger {
	return &zapLogger{inner: zap.NewNop()}
}
