package async

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/cloudsteer/console-core/pkg/observability"
)

// SafeGo executes a function in a goroutine with:
// - A fresh context detached from the caller (the task outlives the request)
// - Panic recovery
// - Timeout enforcement
// - Error logging
//
// Use this instead of bare `go func()` for fire-and-forget side effects.
//
// Example:
//
//	SafeGo(logger, 30*time.Second, "recent-sink", func(ctx context.Context) error {
//	    return sink.Record(ctx, item)
//	})
func SafeGo(logger *observability.Logger, timeout time.Duration, taskName string, fn func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(map[string]interface{}{
					"task":  taskName,
					"panic": r,
					"stack": string(debug.Stack()),
				}).Error("panic in detached task")
			}
		}()

		if err := fn(ctx); err != nil {
			logger.WithError(err).WithField("task", taskName).Error("detached task failed")
		}
	}()
}

// SafeGoNoError is like SafeGo but for functions that don't return errors.
// Still provides panic recovery and timeout enforcement.
func SafeGoNoError(logger *observability.Logger, timeout time.Duration, taskName string, fn func(context.Context)) {
	SafeGo(logger, timeout, taskName, func(ctx context.Context) error {
		fn(ctx)
		return nil
	})
}
