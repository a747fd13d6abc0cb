package store

import (
	"context"
	"sync"
)

// MemoryStore keeps documents in process memory. It backs dry runs
// (STORE_BACKEND=memory) and tests.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

var _ Backend = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, namespace, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[compositeKey(namespace, key)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Save(_ context.Context, namespace, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[compositeKey(namespace, key)] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

func compositeKey(namespace, key string) string {
	return namespace + ":" + key
}
