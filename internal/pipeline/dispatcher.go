package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/diligence-cli/internal/model"
)

// Runner executes one diligence run.
type Runner interface {
	Run(ctx context.Context, company model.Company) Outcome
}

// Dispatcher starts runs in the background and tracks them for shutdown.
type Dispatcher struct {
	runner Runner
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher for runner.
func NewDispatcher(runner Runner) *Dispatcher {
	return &Dispatcher{runner: runner}
}

// Submit starts a run for company and returns its run id without waiting.
// The run keeps ctx's values but not its cancellation, so it outlives the
// request that triggered it.
func (d *Dispatcher) Submit(ctx context.Context, company model.Company) string {
	runID := uuid.NewString()
	runCtx := WithRunID(context.WithoutCancel(ctx), runID)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("pipeline: run goroutine panicked",
					zap.String("run_id", runID),
					zap.Any("panic", r),
				)
			}
		}()
		d.runner.Run(runCtx, company)
	}()

	return runID
}

// Wait blocks until every submitted run has finished or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
