package anchor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"credvault/pkg/platform/sentinel"
)

// Index maps anchored hashes to their ledger records for idempotent re-anchoring
// and lookups that do not replay the ledger topic.
//
// PutIfAbsent returns the record that ends up indexed and whether it was rec.
type Index interface {
	Get(ctx context.Context, hash string) (Record, error)
	PutIfAbsent(ctx context.Context, rec Record) (Record, bool, error)
}

// MemoryIndex is a process-local Index.
type MemoryIndex struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{records: make(map[string]Record)}
}

func (i *MemoryIndex) Get(_ context.Context, hash string) (Record, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	rec, ok := i.records[hash]
	if !ok {
		return Record{}, sentinel.ErrNotFound
	}
	return rec, nil
}

func (i *MemoryIndex) PutIfAbsent(_ context.Context, rec Record) (Record, bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if existing, ok := i.records[rec.Hash]; ok {
		return existing, false, nil
	}
	i.records[rec.Hash] = rec
	return rec, true, nil
}

const redisIndexPrefix = "credvault:anchor:"

// RedisIndex shares the anchor index across processes. Entries never expire.
type RedisIndex struct {
	client redis.UniversalClient
}

func NewRedisIndex(client redis.UniversalClient) *RedisIndex {
	return &RedisIndex{client: client}
}

func (i *RedisIndex) Get(ctx context.Context, hash string) (Record, error) {
	raw, err := i.client.Get(ctx, redisIndexPrefix+hash).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("redis get anchor: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("decode anchor index entry: %w", err)
	}
	return rec, nil
}

func (i *RedisIndex) PutIfAbsent(ctx context.Context, rec Record) (Record, bool, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return Record{}, false, fmt.Errorf("encode anchor index entry: %w", err)
	}
	ok, err := i.client.SetNX(ctx, redisIndexPrefix+rec.Hash, raw, 0).Result()
	if err != nil {
		return Record{}, false, fmt.Errorf("redis setnx anchor: %w", err)
	}
	if ok {
		return rec, true, nil
	}
	existing, err := i.Get(ctx, rec.Hash)
	if err != nil {
		return Record{}, false, err
	}
	return existing, false, nil
}
