package cache

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-process Store, used by tests and as the fallback
// when no persistent backend can be opened.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Record{}}
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, city string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[strings.ToLower(city)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[strings.ToLower(rec.City)] = rec
	return nil
}
