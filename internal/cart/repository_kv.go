package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kittipat-l/couture-backend/internal/storage"
)

// KVRepository stores each device's cart as a JSON document under its own
// key in the shared key-value store.
type KVRepository struct {
	store storage.KV
}

func NewKVRepository(store storage.KV) *KVRepository {
	return &KVRepository{store: store}
}

func cartKey(deviceID string) string {
	return fmt.Sprintf("cart:%s", deviceID)
}

func (r *KVRepository) Load(ctx context.Context, deviceID string) ([]Item, error) {
	data, err := r.store.Get(ctx, cartKey(deviceID))
	if errors.Is(err, storage.ErrNotFound) {
		return []Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return items, nil
}

func (r *KVRepository) Save(ctx context.Context, deviceID string, items []Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	return r.store.Set(ctx, cartKey(deviceID), data)
}

func (r *KVRepository) Clear(ctx context.Context, deviceID string) error {
	return r.store.Delete(ctx, cartKey(deviceID))
}
