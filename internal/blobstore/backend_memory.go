package blobstore

import (
	"context"
	"sync"

	"credvault/pkg/platform/sentinel"
)

// MemoryBackend keeps blobs in a map for tests and single-process deployments.
type MemoryBackend struct {
	mu    sync.RWMutex
	blobs map[ContentHash]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{blobs: make(map[ContentHash]string)}
}

func (b *MemoryBackend) PutIfAbsent(_ context.Context, hash ContentHash, blob string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.blobs[hash]; ok {
		return sentinel.ErrAlreadyExists
	}
	b.blobs[hash] = blob
	return nil
}

func (b *MemoryBackend) Get(_ context.Context, hash ContentHash) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	blob, ok := b.blobs[hash]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return blob, nil
}

// Len returns the number of stored blobs.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.blobs)
}
