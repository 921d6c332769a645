package checkout

import (
	"errors"
	"fmt"

	"github.com/kittipat-l/couture-backend/internal/cart"
)

var (
	// ErrEmptyCart means there is nothing to check out.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrProvider wraps a session-creation failure. The staged pending
	// checkout survives it so a retry needs no re-entered form.
	ErrProvider = errors.New("payment provider error")
	// ErrNoPending means no checkout is staged for the device.
	ErrNoPending = errors.New("no pending checkout")
)

// ValidationError names the first missing required customer field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// Customer is the checkout form payload.
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

func (c Customer) validate() error {
	switch {
	case c.FirstName == "":
		return &ValidationError{Field: "firstName"}
	case c.Email == "":
		return &ValidationError{Field: "email"}
	case c.Address == "":
		return &ValidationError{Field: "address"}
	}
	return nil
}

// PendingCheckout is the staged, not-yet-committed order written right
// before redirecting to the payment provider. At most one exists per
// device; it gains no identifier of its own until the provider's session
// id arrives with the return navigation.
type PendingCheckout struct {
	Customer    Customer    `json:"customer"`
	Items       []cart.Item `json:"items"`
	Subtotal    int64       `json:"subtotal"`
	ShippingFee int64       `json:"shippingFee"`
	Total       int64       `json:"total"`
	Region      string      `json:"region"`
	CreatedAt   string      `json:"createdAt"`
}
