package order

import (
	"errors"

	"github.com/kittipat-l/couture-backend/internal/cart"
)

var (
	// ErrLedgerWrite means the order could not be appended. The pending
	// checkout stays staged so the next page load retries.
	ErrLedgerWrite = errors.New("order ledger write failed")
	// ErrNotFound means no matching order in the ledger.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidTransition rejects an impossible fulfillment move.
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// canTransition encodes the fulfillment flow: processing moves forward to
// shipped or sideways to cancelled; shipped only completes.
func canTransition(from, to Status) bool {
	switch from {
	case StatusProcessing:
		return to == StatusShipped || to == StatusCancelled
	case StatusShipped:
		return to == StatusDelivered
	}
	return false
}

// Order is one committed purchase. OrderNumber is sequential per device.
// At most one order in the ledger carries any non-empty
// ProviderSessionID; that is what makes reconciliation idempotent.
type Order struct {
	OrderNumber       int         `json:"orderNumber"`
	DeviceID          string      `json:"-"`
	ProviderSessionID string      `json:"providerSessionId,omitempty"`
	OwnerEmail        string      `json:"ownerEmail"`
	CustomerName      string      `json:"customerName"`
	ShippingAddress   string      `json:"shippingAddress"`
	Items             []cart.Item `json:"items"`
	Subtotal          int64       `json:"subtotal"`
	ShippingFee       int64       `json:"shippingFee"`
	Total             int64       `json:"total"`
	Status            Status      `json:"status"`
	CreatedAt         string      `json:"createdAt"`
}

// Outcome tags a reconciliation result.
type Outcome string

const (
	NoPendingCheckout Outcome = "noPendingCheckout"
	AlreadyReconciled Outcome = "alreadyReconciled"
	NewlyReconciled   Outcome = "newlyReconciled"
)

// Result is what a reconciliation run reports. Order is populated only
// for NewlyReconciled.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Order   Order   `json:"order,omitempty"`
}
