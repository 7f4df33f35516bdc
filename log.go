package jsonbind

import (
	"context"
	"log/slog"
)

// loggerKey is an unexported type to prevent collisions with context keys from other packages.
type loggerKey struct{}

// WithLogger returns a child context carrying logger. The binder reports the
// strategy chosen for every field at debug level.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// loggerFrom extracts the logger from ctx, or a logger that discards
// everything when none was attached.
func loggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
