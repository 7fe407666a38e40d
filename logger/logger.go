// Package logger provides context-scoped structured logging on top of zap.
//
// The library packages never construct loggers themselves: they log through
// the logger carried by the context, falling back to a package default that
// is a no-op until Setup is called. Commands call Setup once at start-up.
package logger

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// DevelopmentEnvironment selects a human-readable, debug-level logger.
	DevelopmentEnvironment = "development"
	// ProductionEnvironment selects a JSON, info-level logger.
	ProductionEnvironment = "production"
	// SilentEnvironment discards all log output.
	SilentEnvironment = "silent"
)

var defaultLogger atomic.Pointer[zap.Logger] //nolint: gochecknoglobals

func init() {
	defaultLogger.Store(zap.NewNop())
}

// Setup replaces the default logger according to the environment name.
// Unknown names behave like DevelopmentEnvironment.
func Setup(environment string) error {
	var (
		l   *zap.Logger
		err error
	)

	switch environment {
	case SilentEnvironment:
		l = zap.NewNop()
	case ProductionEnvironment:
		l, err = zap.NewProduction()
	default:
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	defaultLogger.Store(l)

	return nil
}

type key struct{}

// Get returns the logger stored in ctx, or the default logger.
func Get(ctx context.Context) *zap.Logger {
	if l, _ := ctx.Value(key{}).(*zap.Logger); l != nil {
		return l
	}

	return defaultLogger.Load()
}

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, key{}, l)
}

// WithFields returns a context whose logger includes fields on every entry.
func WithFields(ctx context.Context, fields ...zapcore.Field) context.Context {
	return WithLogger(ctx, Get(ctx).With(fields...))
}

// Debug logs a message at debug level.
func Debug(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Debug(msg, fields...)
}

// Info logs a message at info level.
func Info(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Info(msg, fields...)
}

// Warn logs a message at warn level.
func Warn(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Warn(msg, fields...)
}

// Error logs a message at error level.
func Error(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Error(msg, fields...)
}

// Sync flushes the default logger.
func Sync() error {
	return defaultLogger.Load().Sync()
}
