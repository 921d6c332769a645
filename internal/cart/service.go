package cart

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kittipat-l/couture-backend/internal/storage"
)

// Service owns all cart mutation. Items merge by (productID, size) and a
// line's quantity never rests at zero or below.
type Service struct {
	repo     Repository
	maxItems int
	log      *slog.Logger
}

func NewService(repo Repository, maxItems int, log *slog.Logger) *Service {
	return &Service{repo: repo, maxItems: maxItems, log: log}
}

// Add merges the item into the device's cart. A returned ErrHistoryTrimmed
// is a warning: the item was saved, but older lines were sacrificed to fit
// the backing store.
func (s *Service) Add(ctx context.Context, deviceID string, item Item) ([]Item, error) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	items, err := s.repo.Load(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range items {
		if sameLine(items[i], item) {
			items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}

	// cap persisted history to the most recent lines
	if s.maxItems > 0 && len(items) > s.maxItems {
		items = items[len(items)-s.maxItems:]
	}

	return s.persist(ctx, deviceID, items, item)
}

// SetQuantity pins a line's quantity; n <= 0 removes the line.
func (s *Service) SetQuantity(ctx context.Context, deviceID string, productID int, size string, n int) ([]Item, error) {
	items, err := s.repo.Load(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	key := Item{ProductID: productID, Size: size}
	for i := range items {
		if !sameLine(items[i], key) {
			continue
		}
		if n <= 0 {
			items = append(items[:i], items[i+1:]...)
		} else {
			items[i].Quantity = n
			key = items[i]
		}
		return s.persist(ctx, deviceID, items, key)
	}
	return nil, ErrItemNotFound
}

func (s *Service) Remove(ctx context.Context, deviceID string, productID int, size string) ([]Item, error) {
	return s.SetQuantity(ctx, deviceID, productID, size, 0)
}

// Items returns an insertion-ordered snapshot; mutating it never touches
// the stored cart.
func (s *Service) Items(ctx context.Context, deviceID string) ([]Item, error) {
	items, err := s.repo.Load(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out, nil
}

func (s *Service) Clear(ctx context.Context, deviceID string) error {
	return s.repo.Clear(ctx, deviceID)
}

// persist writes the full list and, when the store is out of room, retries
// with only the line the caller just changed. The caller's item is never
// silently dropped.
func (s *Service) persist(ctx context.Context, deviceID string, items []Item, changed Item) ([]Item, error) {
	err := s.repo.Save(ctx, deviceID, items)
	if err == nil {
		return items, nil
	}
	if !errors.Is(err, storage.ErrCapacity) {
		return nil, err
	}

	trimmed := []Item{changed}
	if err := s.repo.Save(ctx, deviceID, trimmed); err != nil {
		return nil, err
	}
	s.log.Warn("cart history trimmed", "device", deviceID, "kept", changed.ProductID)
	return trimmed, ErrHistoryTrimmed
}
