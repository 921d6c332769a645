package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByEmail(email string) (Account, error) {
	return s.repo.GetByEmail(email)
}

// Resolve matches the profile to an existing account by email or
// provisions a fresh one with a generated temporary credential
// (guest-to-account). When saveAddress is set and the account already
// exists, a newly supplied address is appended to its address book. The
// returned bool reports whether an account was created.
func (s *Service) Resolve(p Profile, saveAddress bool) (Account, bool, error) {
	existing, err := s.repo.GetByEmail(p.Email)
	if err == nil {
		if saveAddress && p.Address != "" && !contains(existing.AddressBook, p.Address) {
			existing.AddressBook = append(existing.AddressBook, p.Address)
			existing.UpdatedAt = now()
			updated, err := s.repo.Update(existing.ID, existing)
			if err != nil {
				return Account{}, false, err
			}
			return updated, false, nil
		}
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Account{}, false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, false, err
	}

	ts := now()
	created, err := s.repo.Create(Account{
		Email:        p.Email,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Phone:        p.Phone,
		AddressBook:  addressBook(p.Address),
		PasswordHash: string(hashed),
		CreatedAt:    ts,
		UpdatedAt:    ts,
	})
	if err != nil {
		return Account{}, false, err
	}
	return created, true, nil
}

func (s *Service) Authenticate(email, password string) (Account, error) {
	a, err := s.repo.GetByEmail(email)
	if err != nil {
		return Account{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return Account{}, ErrInvalidCredentials
	}
	return a, nil
}

// UpdateProfile replaces the editable profile fields of the account owning
// the given email.
func (s *Service) UpdateProfile(email string, p Profile) (Account, error) {
	a, err := s.repo.GetByEmail(email)
	if err != nil {
		return Account{}, err
	}
	if p.FirstName != "" {
		a.FirstName = p.FirstName
	}
	if p.LastName != "" {
		a.LastName = p.LastName
	}
	if p.Phone != "" {
		a.Phone = p.Phone
	}
	if p.Address != "" && !contains(a.AddressBook, p.Address) {
		a.AddressBook = append(a.AddressBook, p.Address)
	}
	a.UpdatedAt = now()
	return s.repo.Update(a.ID, a)
}

func addressBook(address string) []string {
	if address == "" {
		return nil
	}
	return []string{address}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
