package sync

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShardedMutex_LockUnlock(t *testing.T) {
	m := NewShardedMutex()

	m.Lock("cred_1")
	m.Unlock("cred_1")

	// Empty key maps to shard 0
	m.Lock("")
	m.Unlock("")
}

func TestShardedMutex_SameKeySerializes(t *testing.T) {
	m := NewShardedMutex()
	counter := 0
	var wg sync.WaitGroup

	for range 100 {
		wg.Go(func() {
			m.Lock("cred_same")
			defer m.Unlock("cred_same")
			counter++
		})
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestShardedMutex_WithLockReturnsError(t *testing.T) {
	m := NewShardedMutex()
	want := errors.New("boom")

	err := m.WithLock("cred_err", func() error { return want })
	assert.ErrorIs(t, err, want)

	// lock must have been released
	assert.NoError(t, m.WithLock("cred_err", func() error { return nil }))
}

func TestShardedMutex_ShardDistribution(t *testing.T) {
	m := NewShardedMutex()

	shards := make(map[int]bool)
	keys := []string{"cred_a1", "cred_b2", "cred_c3", "cred_d4", "cred_e5", "cred_f6"}
	for _, key := range keys {
		shards[m.shardFor(key)] = true
	}

	assert.GreaterOrEqual(t, len(shards), 3, "expected keys to distribute across multiple shards")
	assert.Equal(t, m.shardFor("cred_a1"), m.shardFor("cred_a1"))
}
