package kv

import (
	"context"
	"sync"
)

// MemoryStore keeps documents in process memory. Used for tests and for
// throw-away sessions.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = append([]byte(nil), value...)
	return nil
}

// PutMany writes all docs under one lock.
func (m *MemoryStore) PutMany(ctx context.Context, docs map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, value := range docs {
		m.docs[key] = append([]byte(nil), value...)
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }
