//go:build integration

// Package containers provides testcontainers-based fixtures for integration tests.
// These containers are designed for reuse across test suites within a package.
package containers

import (
	"sync"
	"testing"
)

// Manager provides thread-safe access to shared containers.
// Containers are started on first request and reused across test suites;
// Ryuk removes them when the test binary exits.
type Manager struct {
	mu         sync.Mutex
	redis      *RedisContainer
	kafka      *KafkaContainer
	localstack *LocalStackContainer
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

func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.redis == nil {
		m.redis = NewRedisContainer(t)
	}
	return m.redis
}

func (m *Manager) GetKafka(t *testing.T) *KafkaContainer {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.kafka == nil {
		m.kafka = NewKafkaContainer(t)
	}
	return m.kafka
}

// GetLocalStack returns a LocalStack container serving S3 and KMS.
func (m *Manager) GetLocalStack(t *testing.T) *LocalStackContainer {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.localstack == nil {
		m.localstack = NewLocalStackContainer(t)
	}
	return m.localstack
}
