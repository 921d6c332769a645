package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kittipat-l/couture-backend/internal/account"
	"github.com/kittipat-l/couture-backend/internal/cart"
	"github.com/kittipat-l/couture-backend/internal/checkout"
	"github.com/kittipat-l/couture-backend/internal/pricing"
)

// totalTolerance is how far the re-derived total may drift from the
// staged one before a warning is logged, in minor units.
const totalTolerance = 1

// Service turns a completed provider session into a committed order.
// Reconcile is safe to run any number of times for the same session.
type Service struct {
	repo     Repository
	pending  checkout.PendingRepository
	carts    *cart.Service
	calc     *pricing.Calculator
	accounts *account.Service
	homeCode string
	log      *slog.Logger
}

func NewService(repo Repository, pending checkout.PendingRepository, carts *cart.Service, calc *pricing.Calculator, accounts *account.Service, homeCode string, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		pending:  pending,
		carts:    carts,
		calc:     calc,
		accounts: accounts,
		homeCode: homeCode,
		log:      log,
	}
}

// Reconcile inspects the device's staged checkout against the ledger.
// The ledger append is the last mutating step before cleanup: if it
// fails the pending record survives and the next run retries, so the
// worst duplicate-failure outcome is a stale pending record, never a
// lost or doubled order.
func (s *Service) Reconcile(ctx context.Context, deviceID, sessionID string, saveAddress bool) (Result, error) {
	pc, err := s.pending.Load(ctx, deviceID)
	if errors.Is(err, checkout.ErrNoPending) {
		return Result{Outcome: NoPendingCheckout}, nil
	}
	if err != nil {
		return Result{}, err
	}

	if sessionID != "" {
		exists, err := s.repo.ExistsBySession(sessionID)
		if err != nil {
			return Result{}, fmt.Errorf("session lookup: %w", err)
		}
		if exists {
			// a previous run committed the order but died before cleanup
			if err := s.pending.Delete(ctx, deviceID); err != nil {
				s.log.Warn("pending cleanup failed", "device", deviceID, "error", err)
			}
			return Result{Outcome: AlreadyReconciled}, nil
		}
	}

	acct, created, err := s.accounts.Resolve(profileOf(pc.Customer), saveAddress)
	if err != nil {
		return Result{}, fmt.Errorf("resolve account: %w", err)
	}
	if created {
		s.log.Info("provisioned account from checkout", "email", acct.Email)
	}

	s.crossCheck(deviceID, pc)

	number, err := s.repo.NextNumber(deviceID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}

	o := Order{
		OrderNumber:       number,
		DeviceID:          deviceID,
		ProviderSessionID: sessionID,
		OwnerEmail:        acct.Email,
		CustomerName:      strings.TrimSpace(pc.Customer.FirstName + " " + pc.Customer.LastName),
		ShippingAddress:   shippingAddress(pc.Customer),
		Items:             pc.Items,
		Subtotal:          pc.Subtotal,
		ShippingFee:       pc.ShippingFee,
		Total:             pc.Total,
		Status:            StatusProcessing,
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
	}
	committed, err := s.repo.Create(o)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}

	// cleanup after the ledger write; failures here only leave stale state
	if err := s.carts.Clear(ctx, deviceID); err != nil {
		s.log.Warn("cart cleanup failed", "device", deviceID, "error", err)
	}
	if err := s.pending.Delete(ctx, deviceID); err != nil {
		s.log.Warn("pending cleanup failed", "device", deviceID, "error", err)
	}

	s.log.Info("order reconciled", "device", deviceID, "orderNumber", committed.OrderNumber, "total", committed.Total)
	return Result{Outcome: NewlyReconciled, Order: committed}, nil
}

// crossCheck re-derives the quote from the staged items. The staged
// total is what the provider charged, so it always wins; a drift only
// warns.
func (s *Service) crossCheck(deviceID string, pc checkout.PendingCheckout) {
	region := pricing.RegionForCountry(pc.Customer.Country, s.homeCode)
	quote := s.calc.Price(pricingItems(pc.Items), region)
	if diff := quote.Total - pc.Total; diff > totalTolerance || diff < -totalTolerance {
		s.log.Warn("staged total drift", "device", deviceID, "staged", pc.Total, "derived", quote.Total)
	}
}

// ListByOwner returns the owner's orders, newest first.
func (s *Service) ListByOwner(email string) ([]Order, error) {
	return s.repo.ListByOwner(email)
}

// UpdateStatus advances an order through the fulfillment flow.
func (s *Service) UpdateStatus(ownerEmail string, number int, to Status) (Order, error) {
	o, err := s.repo.GetByNumber(ownerEmail, number)
	if err != nil {
		return Order{}, err
	}
	if !canTransition(o.Status, to) {
		return Order{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, o.Status, to)
	}
	return s.repo.UpdateStatus(ownerEmail, number, to)
}

func profileOf(c checkout.Customer) account.Profile {
	return account.Profile{
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
		Address:   c.Address,
	}
}

func shippingAddress(c checkout.Customer) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Address, c.City, c.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func pricingItems(items []cart.Item) []pricing.Item {
	out := make([]pricing.Item, len(items))
	for i, it := range items {
		out[i] = pricing.Item{UnitPrice: it.UnitPrice, Quantity: it.Quantity}
	}
	return out
}
