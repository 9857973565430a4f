package anchor

import (
	"context"
	"sync"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/platform/middleware/requesttime"
)

// MemoryLedger is an append-only in-process ledger.
type MemoryLedger struct {
	mu      sync.RWMutex
	records []Record
	byHash  map[string]int
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{byHash: make(map[string]int)}
}

func (l *MemoryLedger) Anchor(ctx context.Context, hash string, issuer id.DID) (Result, error) {
	if err := validate(hash, issuer); err != nil {
		return Result{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if i, ok := l.byHash[hash]; ok {
		return Result{Record: l.records[i], Created: false}, nil
	}

	rec := Record{
		Hash:      hash,
		IssuerDID: issuer,
		TxID:      newTxID(),
		Timestamp: requesttime.Now(ctx),
	}
	l.records = append(l.records, rec)
	l.byHash[hash] = len(l.records) - 1
	return Result{Record: rec, Created: true}, nil
}

func (l *MemoryLedger) Find(_ context.Context, hash string) (Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i, ok := l.byHash[hash]
	if !ok {
		return Record{}, dErrors.New(dErrors.CodeNotFound, "anchor not found")
	}
	return l.records[i], nil
}

// Records returns a copy of the ledger in append order.
func (l *MemoryLedger) Records() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

func validate(hash string, issuer id.DID) error {
	if hash == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "anchor hash required")
	}
	if issuer.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "issuer DID required")
	}
	return nil
}
