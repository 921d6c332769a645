package cart

import (
	"context"
	"sync"
)

// Repository persists one item list per device. Load on an unknown device
// returns an empty list, never an error.
type Repository interface {
	Load(ctx context.Context, deviceID string) ([]Item, error)
	Save(ctx context.Context, deviceID string, items []Item) error
	Clear(ctx context.Context, deviceID string) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[string][]Item
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[string][]Item)}
}

func (r *InMemoryRepository) Load(_ context.Context, deviceID string) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.carts[deviceID]
	out := make([]Item, len(items))
	copy(out, items)
	return out, nil
}

func (r *InMemoryRepository) Save(_ context.Context, deviceID string, items []Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make([]Item, len(items))
	copy(stored, items)
	r.carts[deviceID] = stored
	return nil
}

func (r *InMemoryRepository) Clear(_ context.Context, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, deviceID)
	return nil
}
