package account

import (
	"strings"
	"sync"
)

// Repository defines persistence operations for accounts. Email lookups
// are case-insensitive.
type Repository interface {
	GetByEmail(email string) (Account, error)
	Create(a Account) (Account, error)
	Update(id int, a Account) (Account, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu       sync.RWMutex
	nextID   int
	accounts []Account
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) GetByEmail(email string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return Account{}, ErrNotFound
}

func (r *InMemoryRepository) Create(a Account) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return Account{}, ErrEmailExists
		}
	}
	a.ID = r.nextID
	r.nextID++
	r.accounts = append(r.accounts, a)
	return a, nil
}

func (r *InMemoryRepository) Update(id int, a Account) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.accounts {
		if existing.ID == id {
			a.ID = id
			r.accounts[i] = a
			return a, nil
		}
	}
	return Account{}, ErrNotFound
}
