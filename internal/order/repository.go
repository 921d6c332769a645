package order

import (
	"strings"
	"sync"
)

// Repository is the durable order ledger. Orders are append-only;
// only Status ever changes after the fact.
type Repository interface {
	ExistsBySession(sessionID string) (bool, error)
	NextNumber(deviceID string) (int, error)
	Create(o Order) (Order, error)
	ListByOwner(email string) ([]Order, error)
	GetByNumber(ownerEmail string, number int) (Order, error)
	UpdateStatus(ownerEmail string, number int, st Status) (Order, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) ExistsBySession(sessionID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ProviderSessionID != "" && o.ProviderSessionID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRepository) NextNumber(deviceID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	max := 0
	for _, o := range r.orders {
		if o.DeviceID == deviceID && o.OrderNumber > max {
			max = o.OrderNumber
		}
	}
	return max + 1, nil
}

func (r *InMemoryRepository) Create(o Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
	return o, nil
}

func (r *InMemoryRepository) ListByOwner(email string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Order
	for i := len(r.orders) - 1; i >= 0; i-- {
		if strings.EqualFold(r.orders[i].OwnerEmail, email) {
			out = append(out, r.orders[i])
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetByNumber(ownerEmail string, number int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.OrderNumber == number && strings.EqualFold(o.OwnerEmail, ownerEmail) {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) UpdateStatus(ownerEmail string, number int, st Status) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.orders {
		if o.OrderNumber == number && strings.EqualFold(o.OwnerEmail, ownerEmail) {
			r.orders[i].Status = st
			return r.orders[i], nil
		}
	}
	return Order{}, ErrNotFound
}
