//go:build integration

// Package containers provides testcontainers-based fixtures for integration tests.
// Containers are started lazily and reused across test suites within a package.
package containers

import (
	"sync"
	"testing"
)

// Manager provides thread-safe access to shared containers.
type Manager struct {
	mu       sync.Mutex
	postgres *PostgresContainer
	kafka    *KafkaContainer
	redis    *RedisContainer
}

var (
	globalManager *Manager
	initOnce      sync.Once
)

// GetManager returns the singleton container manager.
func GetManager() *Manager {
	initOnce.Do(func() {
		globalManager = &Manager{}
	})
	return globalManager
}

// GetPostgres returns a Postgres container with migrations applied, starting it if necessary.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.postgres == nil {
		m.postgres = NewPostgresContainer(t)
	}
	return m.postgres
}

// GetKafka returns a Kafka-compatible broker, starting it if necessary.
func (m *Manager) GetKafka(t *testing.T) *KafkaContainer {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.kafka == nil {
		m.kafka = NewKafkaContainer(t)
	}
	return m.kafka
}

// GetRedis returns a Redis container, starting it if necessary.
func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.redis == nil {
		m.redis = NewRedisContainer(t)
	}
	return m.redis
}
