package storage

import (
	"context"
	"sync"
)

// MemoryStore is used for tests and local scenarios. MaxBytes, when
// positive, rejects writes that would grow a value past the bound with
// ErrCapacity, mimicking a full backing store.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string][]byte
	MaxBytes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MaxBytes > 0 && len(value) > s.MaxBytes {
		return ErrCapacity
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
