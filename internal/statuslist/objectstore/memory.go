package objectstore

import (
	"context"
	"sync"
)

// Object is a stored body with its content type.
type Object struct {
	Body        []byte
	ContentType string
}

// MemoryStore is an in-process store for local runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
	puts    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

func (m *MemoryStore) Put(ctx context.Context, container, key string, body []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return storageError(err, "put "+container+"/"+key)
	}
	cp := make([]byte, len(body))
	copy(cp, body)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[container+"/"+key] = Object{Body: cp, ContentType: contentType}
	m.puts++
	return nil
}

func (m *MemoryStore) Get(container, key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[container+"/"+key]
	return obj, ok
}

// Len is the number of distinct stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// Puts counts every write, overwrites included.
func (m *MemoryStore) Puts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}
