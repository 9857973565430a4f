// Package anchor records credential hashes on an append-only ledger.
//
// Anchoring is idempotent per hash: re-anchoring an already anchored hash returns
// the original record tagged as not created instead of writing a second entry.
package anchor

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "credvault/pkg/domain"
)

// Record is one immutable ledger entry.
type Record struct {
	Hash      string    `json:"hash"`
	IssuerDID id.DID    `json:"issuerDid"`
	TxID      string    `json:"txId"`
	Timestamp time.Time `json:"timestamp"`
}

// Result tags whether Anchor appended a new record or found an existing one.
type Result struct {
	Record  Record
	Created bool
}

// Ledger is the anchoring port used by the lifecycle manager.
//
// Anchor fails with CodeInvalidInput on an empty hash or DID and CodeAnchorFailure
// when the ledger cannot be written. Find fails with CodeNotFound.
type Ledger interface {
	Anchor(ctx context.Context, hash string, issuer id.DID) (Result, error)
	Find(ctx context.Context, hash string) (Record, error)
}

func newTxID() string {
	return "txn_" + uuid.NewString()
}
