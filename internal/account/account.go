package account

import "errors"

var (
	ErrNotFound           = errors.New("account not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Account is a customer identity keyed by email (case-insensitive). The
// session's "current identity" is only ever a lookup by email, never a
// pointer into this table.
type Account struct {
	ID           int      `json:"accountId"`
	Email        string   `json:"email"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Phone        string   `json:"phone"`
	AddressBook  []string `json:"addressBook,omitempty"`
	PasswordHash string   `json:"-"`
	CreatedAt    string   `json:"createdAt,omitempty"`
	UpdatedAt    string   `json:"updatedAt,omitempty"`
}

// Profile carries the fields a checkout form supplies for provisioning or
// matching an account.
type Profile struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Address   string
}
