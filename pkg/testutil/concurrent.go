package testutil

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/platform/sentinel"
)

// ConcurrentResult tracks outcomes of concurrent test operations.
type ConcurrentResult struct {
	Successes     int32
	Errors        int32
	Conflicts     int32
	InvalidStates int32
	NotFounds     int32
}

// Total returns the total number of operations executed.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Errors + r.Conflicts + r.InvalidStates + r.NotFounds
}

// RunConcurrent executes fn in parallel goroutines and buckets the outcomes.
// Both sentinel errors and domain-error codes are recognised.
func RunConcurrent(goroutines int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, errs, conflicts, invalid, notFounds atomic.Int32

	for i := range goroutines {
		wg.Go(func() {
			err := fn(i)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrInvalidState) || dErrors.HasCode(err, dErrors.CodeInvalidState):
				invalid.Add(1)
			case errors.Is(err, sentinel.ErrConflict) || dErrors.HasCode(err, dErrors.CodeConflict):
				conflicts.Add(1)
			case errors.Is(err, sentinel.ErrNotFound) || dErrors.HasCode(err, dErrors.CodeNotFound):
				notFounds.Add(1)
			default:
				errs.Add(1)
			}
		})
	}

	wg.Wait()

	return &ConcurrentResult{
		Successes:     successes.Load(),
		Errors:        errs.Load(),
		Conflicts:     conflicts.Load(),
		InvalidStates: invalid.Load(),
		NotFounds:     notFounds.Load(),
	}
}

// RunConcurrentCtx executes fn in parallel goroutines with context support.
func RunConcurrentCtx(ctx context.Context, goroutines int, fn func(ctx context.Context, idx int) error) *ConcurrentResult {
	return RunConcurrent(goroutines, func(idx int) error {
		return fn(ctx, idx)
	})
}

// RunConcurrentCollect executes fn in parallel and returns every error for inspection.
func RunConcurrentCollect(goroutines int, fn func(idx int) error) (successes int32, errs []error) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var successCount atomic.Int32
	collected := make([]error, 0)

	for i := range goroutines {
		wg.Go(func() {
			if err := fn(i); err != nil {
				mu.Lock()
				collected = append(collected, err)
				mu.Unlock()
				return
			}
			successCount.Add(1)
		})
	}

	wg.Wait()
	return successCount.Load(), collected
}
