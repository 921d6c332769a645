package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kittipat-l/couture-backend/internal/cart"
	"github.com/kittipat-l/couture-backend/internal/pricing"
)

// Service orchestrates a checkout attempt: price the cart, stage a pending
// record, request a hosted session, hand back the redirect URL.
type Service struct {
	carts      *cart.Service
	calc       *pricing.Calculator
	pending    PendingRepository
	provider   SessionProvider
	homeCode   string
	successURL string
	cancelURL  string
	log        *slog.Logger
}

func NewService(carts *cart.Service, calc *pricing.Calculator, pending PendingRepository, provider SessionProvider, homeCode, successURL, cancelURL string, log *slog.Logger) *Service {
	return &Service{
		carts:      carts,
		calc:       calc,
		pending:    pending,
		provider:   provider,
		homeCode:   homeCode,
		successURL: successURL,
		cancelURL:  cancelURL,
		log:        log,
	}
}

// StartCheckout runs the full orchestration. The pending record is staged
// before the provider call and deliberately left in place when that call
// fails, so a retry does not require re-entering the form.
func (s *Service) StartCheckout(ctx context.Context, deviceID string, cust Customer) (string, error) {
	if err := cust.validate(); err != nil {
		return "", err
	}

	items, err := s.carts.Items(ctx, deviceID)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", ErrEmptyCart
	}

	region := pricing.RegionForCountry(cust.Country, s.homeCode)
	quote := s.calc.Price(pricingItems(items), region)
	if err := s.calc.CheckMinimum(quote); err != nil {
		return "", err
	}

	pc := PendingCheckout{
		Customer:    cust,
		Items:       items,
		Subtotal:    quote.Subtotal,
		ShippingFee: quote.ShippingFee,
		Total:       quote.Total,
		Region:      region.String(),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.pending.Stage(ctx, deviceID, pc); err != nil {
		return "", fmt.Errorf("stage pending checkout: %w", err)
	}

	resp, err := s.provider.CreateSession(ctx, s.sessionRequest(cust, items, quote))
	if err != nil {
		// pending stays staged for the retry
		s.log.Warn("provider session failed", "device", deviceID, "error", err)
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return resp.RedirectURL, nil
}

func (s *Service) sessionRequest(cust Customer, items []cart.Item, quote pricing.Quote) SessionRequest {
	lines := make([]SessionLineItem, 0, len(items)+1)
	for _, it := range items {
		lines = append(lines, SessionLineItem{
			Name:       it.Name,
			UnitAmount: it.UnitPrice,
			Quantity:   it.Quantity,
			Image:      it.Image,
		})
	}
	if quote.ShippingFee > 0 {
		lines = append(lines, SessionLineItem{
			Name:       "International Shipping",
			UnitAmount: quote.ShippingFee,
			Quantity:   1,
		})
	}

	name := strings.TrimSpace(cust.FirstName + " " + cust.LastName)
	return SessionRequest{
		LineItems:    lines,
		CustomerName: name,
		Email:        cust.Email,
		Amount:       quote.Total,
		SuccessURL:   s.successURL,
		CancelURL:    s.cancelURL,
	}
}

func pricingItems(items []cart.Item) []pricing.Item {
	out := make([]pricing.Item, len(items))
	for i, it := range items {
		out[i] = pricing.Item{UnitPrice: it.UnitPrice, Quantity: it.Quantity}
	}
	return out
}
