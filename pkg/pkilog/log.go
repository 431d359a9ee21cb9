// Package pkilog carries a structured logger on context.Context, following
// the context-carried sugared-logger pattern built on go.uber.org/zap used
// throughout this codebase's CLI and library layers.
package pkilog

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

// WithLogger attaches logger to ctx so that library code reached through
// ctx can log through it.
func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// From returns the logger attached to ctx, or a no-op logger if none was
// attached, so callers never need a nil check.
func From(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok && l != nil {
			return l
		}
	}
	return noop
}

var noop = zap.NewNop().Sugar()

// NewDevelopment builds a human-readable development logger, used by the
// CLI and by tests that want to see what the core is doing.
func NewDevelopment() *zap.SugaredLogger {
	l, err := zap.NewDevelopmentConfig().Build()
	if err != nil {
		return noop
	}
	return l.Sugar()
}
