package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/pavelc4/clipgrab-bot/pkg/logger"
)

// Handler processes one inbound update.
type Handler func(ctx context.Context) error

type Middleware func(Handler) Handler

// Recover turns a panic into an error so one bad update cannot take the
// process down.
func Recover(next Handler) Handler {
	return func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered", "error", r, "stack", string(debug.Stack()))
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return next(ctx)
	}
}

const slowThreshold = 100 * time.Millisecond

// Logger reports how long an update took and whether it failed.
func Logger(name string) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context) error {
			start := time.Now()
			err := next(ctx)

			duration := time.Since(start)
			switch {
			case err != nil:
				logger.Error("Handler failed", "name", name, "duration", duration, "error", err)
			case duration > slowThreshold:
				logger.Info("Handler completed (slow)", "name", name, "duration", duration)
			default:
				logger.Debug("Handler completed", "name", name, "duration", duration)
			}
			return err
		}
	}
}

// Chain wraps h so that the first middleware runs outermost.
func Chain(h Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
