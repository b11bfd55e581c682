package background

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Runner executes fire-and-forget tasks on a context detached from the
// triggering request, so a task survives the request/response cycle that
// spawned it. Shutdown waits for in-flight tasks.
type Runner struct {
	baseCtx context.Context
	logger  *zap.Logger
	wg      sync.WaitGroup
}

func New(logger *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{baseCtx: baseCtx, logger: logger}
}

// Go schedules fn on the runner's base context. Panics are recovered and
// logged; a background task must never take the process down.
func (r *Runner) Go(name string, fn func(context.Context)) {
	if r == nil || fn == nil {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil && r.logger != nil {
				r.logger.Error("background task panicked",
					zap.String("task", name),
					zap.Any("panic", rec),
				)
			}
		}()
		fn(r.baseCtx)
	}()
}

// Wait blocks until all scheduled tasks finish or the timeout elapses.
func (r *Runner) Wait(timeout time.Duration) bool {
	if r == nil {
		return true
	}
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		if r.logger != nil {
			r.logger.Warn("background tasks still running at shutdown")
		}
		return false
	}
}
