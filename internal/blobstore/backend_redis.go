package blobstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"credvault/pkg/platform/sentinel"
)

const redisKeyPrefix = "credvault:blob:"

// RedisBackend stores blobs as plain string keys written with SETNX and no expiry.
type RedisBackend struct {
	client redis.UniversalClient
}

func NewRedisBackend(client redis.UniversalClient) *RedisBackend {
	return &RedisBackend{client: client}
}

func redisKey(hash ContentHash) string { return redisKeyPrefix + string(hash) }

func (b *RedisBackend) PutIfAbsent(ctx context.Context, hash ContentHash, blob string) error {
	ok, err := b.client.SetNX(ctx, redisKey(hash), blob, 0).Result()
	if err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return sentinel.ErrAlreadyExists
	}
	return nil
}

func (b *RedisBackend) Get(ctx context.Context, hash ContentHash) (string, error) {
	blob, err := b.client.Get(ctx, redisKey(hash)).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return blob, nil
}
