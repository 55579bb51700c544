package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

// Long engine runs (search, diff skip, smart scroll) execute on their
// own goroutine with a cancellable context. The UI attaches its logger
// to that context so the scan side reports through the same sink.

type loggerCtxKey struct{}

// WithLogger returns a context carrying the given logger.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext returns the logger attached to a scan context, or the
// process-wide logger when none was attached.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerCtxKey{}).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}
