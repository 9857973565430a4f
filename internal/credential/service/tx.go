package service

import (
	"context"
	"sync"
	"time"

	dErrors "credvault/pkg/domain-errors"
)

// defaultTxTimeout bounds a transaction when the caller set no deadline.
const defaultTxTimeout = 5 * time.Second

// memoryTx serializes transactions over in-memory stores with a single lock.
// There is no rollback: callers check state under the per-credential lock before
// writing, so the second write of a transaction does not fail on state.
type memoryTx struct {
	mu     sync.Mutex
	stores Stores
}

// NewMemoryTx returns a StoreTx over in-memory stores.
func NewMemoryTx(credentials Store, revocations RevocationStore) StoreTx {
	return &memoryTx{stores: Stores{Credentials: credentials, Revocations: revocations}}
}

func (t *memoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTxTimeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx, t.stores)
}
