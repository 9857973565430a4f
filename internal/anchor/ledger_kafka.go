package anchor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"credvault/internal/platform/kafka/producer"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/platform/middleware/requesttime"
	"credvault/pkg/platform/sentinel"
	platformsync "credvault/pkg/platform/sync"
)

// Producer is the subset of the Kafka producer used by the ledger.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) (producer.Receipt, error)
}

// KafkaLedger appends one record per anchor to an append-only topic keyed by hash.
//
// Idempotency is enforced by the Index. Within a process, a per-hash lock prevents two
// concurrent writers from producing twice; across processes the index's put-if-absent
// decides the winner and the loser's duplicate topic entry is ignored by readers
// because it carries the same key.
//
// A record that reached the topic but not the index is kept and re-indexed on the
// next Anchor of the same hash, so a retry never produces a second TxID.
type KafkaLedger struct {
	producer Producer
	index    Index
	topic    string
	locks    *platformsync.ShardedMutex
	logger   *slog.Logger

	mu        sync.Mutex
	unindexed map[string]Record
}

// KafkaOption configures a KafkaLedger.
type KafkaOption func(*KafkaLedger)

// WithKafkaLogger sets the logger.
func WithKafkaLogger(logger *slog.Logger) KafkaOption {
	return func(l *KafkaLedger) { l.logger = logger }
}

func NewKafkaLedger(p Producer, index Index, topic string, opts ...KafkaOption) *KafkaLedger {
	l := &KafkaLedger{
		producer:  p,
		index:     index,
		topic:     topic,
		locks:     platformsync.NewShardedMutex(),
		logger:    slog.Default(),
		unindexed: make(map[string]Record),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *KafkaLedger) Anchor(ctx context.Context, hash string, issuer id.DID) (Result, error) {
	if err := validate(hash, issuer); err != nil {
		return Result{}, err
	}

	l.locks.Lock(hash)
	defer l.locks.Unlock(hash)

	existing, err := l.index.Get(ctx, hash)
	switch {
	case err == nil:
		return Result{Record: existing, Created: false}, nil
	case !errors.Is(err, sentinel.ErrNotFound):
		return Result{}, dErrors.Wrap(err, dErrors.CodeAnchorFailure, "anchor index unavailable")
	}

	rec, produced := l.takeUnindexed(hash)
	if !produced {
		rec = Record{
			Hash:      hash,
			IssuerDID: issuer,
			TxID:      newTxID(),
			Timestamp: requesttime.Now(ctx).UTC(),
		}
		if err := l.produce(ctx, rec); err != nil {
			return Result{}, err
		}
	}

	indexed, created, err := l.index.PutIfAbsent(ctx, rec)
	if err != nil {
		l.keepUnindexed(rec)
		return Result{}, dErrors.Wrap(err, dErrors.CodeAnchorFailure, "index anchored record")
	}
	if !created {
		l.logger.InfoContext(ctx, "anchor raced with another writer",
			"anchor_hash", hash,
			"tx_id", indexed.TxID,
		)
	}

	l.logger.DebugContext(ctx, "hash anchored",
		"anchor_hash", hash,
		"tx_id", indexed.TxID,
		"reindexed", produced,
	)
	return Result{Record: indexed, Created: created}, nil
}

func (l *KafkaLedger) produce(ctx context.Context, rec Record) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeAnchorFailure, "encode anchor record")
	}
	receipt, err := l.producer.Produce(ctx, &producer.Message{
		Topic: l.topic,
		Key:   []byte(rec.Hash),
		Value: value,
		Headers: map[string]string{
			"issuer_did": rec.IssuerDID.String(),
			"tx_id":      rec.TxID,
		},
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeAnchorFailure, "ledger write failed")
	}
	l.logger.DebugContext(ctx, "anchor record produced",
		"anchor_hash", rec.Hash,
		"partition", receipt.Partition,
		"offset", receipt.Offset,
	)
	return nil
}

func (l *KafkaLedger) takeUnindexed(hash string) (Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.unindexed[hash]
	delete(l.unindexed, hash)
	return rec, ok
}

func (l *KafkaLedger) keepUnindexed(rec Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unindexed[rec.Hash] = rec
}

func (l *KafkaLedger) Find(ctx context.Context, hash string) (Record, error) {
	rec, err := l.index.Get(ctx, hash)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Record{}, dErrors.New(dErrors.CodeNotFound, "anchor not found")
	}
	if err != nil {
		return Record{}, dErrors.Wrap(err, dErrors.CodeAnchorFailure, "anchor index unavailable")
	}
	return rec, nil
}
