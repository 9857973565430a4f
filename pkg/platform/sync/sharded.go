package sync

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

// ShardedMutex provides per-key mutual exclusion without a global lock.
// Keys (credential IDs in practice) are hashed onto a fixed set of shards, so two
// operations on the same key always serialize while unrelated keys rarely contend.
type ShardedMutex struct {
	shards [shardCount]sync.Mutex
}

// NewShardedMutex creates a ShardedMutex with 32 shards.
func NewShardedMutex() *ShardedMutex {
	return &ShardedMutex{}
}

// Lock acquires the lock for the given key's shard.
func (m *ShardedMutex) Lock(key string) {
	m.shards[m.shardFor(key)].Lock()
}

// Unlock releases the lock for the given key's shard.
func (m *ShardedMutex) Unlock(key string) {
	m.shards[m.shardFor(key)].Unlock()
}

// WithLock runs fn while holding the key's shard lock and returns its error.
func (m *ShardedMutex) WithLock(key string, fn func() error) error {
	m.Lock(key)
	defer m.Unlock(key)
	return fn()
}

// shardFor returns the shard index for the given key. Empty keys use shard 0.
func (m *ShardedMutex) shardFor(key string) int {
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % shardCount)
}
