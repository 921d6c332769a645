package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/kittipat-l/couture-backend/internal/storage"
)

// PendingRepository stages at most one checkout per device. Stage always
// overwrites: starting a new checkout discards an abandoned attempt.
type PendingRepository interface {
	Stage(ctx context.Context, deviceID string, pc PendingCheckout) error
	Load(ctx context.Context, deviceID string) (PendingCheckout, error)
	Delete(ctx context.Context, deviceID string) error
}

type KVPendingRepository struct {
	store storage.KV
}

func NewKVPendingRepository(store storage.KV) *KVPendingRepository {
	return &KVPendingRepository{store: store}
}

func pendingKey(deviceID string) string {
	return fmt.Sprintf("pending:%s", deviceID)
}

func (r *KVPendingRepository) Stage(ctx context.Context, deviceID string, pc PendingCheckout) error {
	data, err := json.Marshal(pc)
	if err != nil {
		return fmt.Errorf("marshal pending checkout: %w", err)
	}
	return r.store.Set(ctx, pendingKey(deviceID), data)
}

func (r *KVPendingRepository) Load(ctx context.Context, deviceID string) (PendingCheckout, error) {
	data, err := r.store.Get(ctx, pendingKey(deviceID))
	if errors.Is(err, storage.ErrNotFound) {
		return PendingCheckout{}, ErrNoPending
	}
	if err != nil {
		return PendingCheckout{}, fmt.Errorf("load pending checkout: %w", err)
	}

	var pc PendingCheckout
	if err := json.Unmarshal(data, &pc); err != nil {
		return PendingCheckout{}, fmt.Errorf("unmarshal pending checkout: %w", err)
	}
	return pc, nil
}

func (r *KVPendingRepository) Delete(ctx context.Context, deviceID string) error {
	return r.store.Delete(ctx, pendingKey(deviceID))
}

// InMemoryPendingRepository is used for tests and local scenarios.
type InMemoryPendingRepository struct {
	mu      sync.RWMutex
	pending map[string]PendingCheckout
}

func NewInMemoryPendingRepository() *InMemoryPendingRepository {
	return &InMemoryPendingRepository{pending: make(map[string]PendingCheckout)}
}

func (r *InMemoryPendingRepository) Stage(_ context.Context, deviceID string, pc PendingCheckout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[deviceID] = pc
	return nil
}

func (r *InMemoryPendingRepository) Load(_ context.Context, deviceID string) (PendingCheckout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pc, ok := r.pending[deviceID]
	if !ok {
		return PendingCheckout{}, ErrNoPending
	}
	return pc, nil
}

func (r *InMemoryPendingRepository) Delete(_ context.Context, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, deviceID)
	return nil
}
