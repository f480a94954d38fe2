package repositories

import (
	"context"
	"sync"
)

type memoryKeyValueStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryKeyValueStore creates a KeyValueStore that lives only as long as the process.
func NewMemoryKeyValueStore() KeyValueStore {
	return &memoryKeyValueStore{entries: make(map[string]string)}
}

var _ KeyValueStore = (*memoryKeyValueStore)(nil)

func (s *memoryKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *memoryKeyValueStore) SetMany(ctx context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range entries {
		s.entries[k] = v
	}
	return nil
}

func (s *memoryKeyValueStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}

func (s *memoryKeyValueStore) Close() error {
	return nil
}
