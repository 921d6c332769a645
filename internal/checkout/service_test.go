package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/kittipat-l/couture-backend/internal/cart"
	"github.com/kittipat-l/couture-backend/internal/pricing"
)

type stubProvider struct {
	url      string
	err      error
	requests []SessionRequest
}

func (p *stubProvider) CreateSession(_ context.Context, req SessionRequest) (SessionResponse, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return SessionResponse{}, p.err
	}
	return SessionResponse{RedirectURL: p.url}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	carts    *cart.Service
	pending  *InMemoryPendingRepository
	provider *stubProvider
	service  *Service
}

func newFixture(provider *stubProvider) *fixture {
	carts := cart.NewService(cart.NewInMemoryRepository(), 0, testLogger())
	pending := NewInMemoryPendingRepository()
	calc := pricing.NewCalculator(12000, 200)
	svc := NewService(carts, calc, pending, provider, "AE", "/account?checkout=success", "/checkout?canceled=true", testLogger())
	return &fixture{carts: carts, pending: pending, provider: provider, service: svc}
}

func validCustomer() Customer {
	return Customer{
		FirstName: "Lina",
		LastName:  "Haddad",
		Email:     "lina@example.com",
		Address:   "12 Marina Walk",
		City:      "Dubai",
		Country:   "uae",
	}
}

func TestStartCheckout_ValidationError(t *testing.T) {
	f := newFixture(&stubProvider{url: "https://pay.example/s1"})

	cust := validCustomer()
	cust.Email = ""
	_, err := f.service.StartCheckout(context.Background(), "dev", cust)

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "email" {
		t.Errorf("expected email field, got %q", vErr.Field)
	}
	if _, err := f.pending.Load(context.Background(), "dev"); !errors.Is(err, ErrNoPending) {
		t.Error("nothing should be staged on validation failure")
	}
}

func TestStartCheckout_EmptyCart(t *testing.T) {
	f := newFixture(&stubProvider{url: "https://pay.example/s1"})

	_, err := f.service.StartCheckout(context.Background(), "dev", validCustomer())
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestStartCheckout_BelowMinimum(t *testing.T) {
	f := newFixture(&stubProvider{url: "https://pay.example/s1"})
	f.carts.Add(context.Background(), "dev", cart.Item{ProductID: 1, Size: "M", UnitPrice: 50, Quantity: 1})

	_, err := f.service.StartCheckout(context.Background(), "dev", validCustomer())
	if !errors.Is(err, pricing.ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum, got %v", err)
	}
	if len(f.provider.requests) != 0 {
		t.Error("provider must not be called for a doomed total")
	}
}

func TestStartCheckout_Success(t *testing.T) {
	f := newFixture(&stubProvider{url: "https://pay.example/s1"})
	f.carts.Add(context.Background(), "dev", cart.Item{ProductID: 1, Name: "Silk Gown", Size: "M", UnitPrice: 10000, Quantity: 2})

	url, err := f.service.StartCheckout(context.Background(), "dev", validCustomer())
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://pay.example/s1" {
		t.Errorf("unexpected redirect %q", url)
	}

	pc, err := f.pending.Load(context.Background(), "dev")
	if err != nil {
		t.Fatal(err)
	}
	if pc.Total != 20000 || pc.ShippingFee != 0 {
		t.Errorf("unexpected staged totals %+v", pc)
	}
	if len(pc.Items) != 1 {
		t.Errorf("expected a cart snapshot, got %+v", pc.Items)
	}
}

func TestStartCheckout_InternationalAddsShippingLine(t *testing.T) {
	f := newFixture(&stubProvider{url: "https://pay.example/s1"})
	f.carts.Add(context.Background(), "dev", cart.Item{ProductID: 1, Name: "Silk Gown", Size: "M", UnitPrice: 10000, Quantity: 2})

	cust := validCustomer()
	cust.Country = "France"
	if _, err := f.service.StartCheckout(context.Background(), "dev", cust); err != nil {
		t.Fatal(err)
	}

	req := f.provider.requests[0]
	if len(req.LineItems) != 2 {
		t.Fatalf("expected product + shipping lines, got %+v", req.LineItems)
	}
	shipping := req.LineItems[1]
	if shipping.UnitAmount != 24000 || shipping.Quantity != 1 {
		t.Errorf("unexpected shipping line %+v", shipping)
	}
	if req.Amount != 44000 {
		t.Errorf("expected session amount 44000, got %d", req.Amount)
	}
}

func TestStartCheckout_ProviderFailureKeepsPending(t *testing.T) {
	f := newFixture(&stubProvider{err: errors.New("gateway timeout")})
	f.carts.Add(context.Background(), "dev", cart.Item{ProductID: 1, Size: "M", UnitPrice: 10000, Quantity: 1})

	_, err := f.service.StartCheckout(context.Background(), "dev", validCustomer())
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}

	if _, err := f.pending.Load(context.Background(), "dev"); err != nil {
		t.Error("pending checkout must survive a provider failure")
	}
}

func TestStartCheckout_OverwritesPreviousAttempt(t *testing.T) {
	f := newFixture(&stubProvider{url: "https://pay.example/s1"})
	ctx := context.Background()
	f.carts.Add(ctx, "dev", cart.Item{ProductID: 1, Size: "M", UnitPrice: 10000, Quantity: 1})

	if _, err := f.service.StartCheckout(ctx, "dev", validCustomer()); err != nil {
		t.Fatal(err)
	}

	f.carts.Add(ctx, "dev", cart.Item{ProductID: 2, Size: "L", UnitPrice: 5000, Quantity: 1})
	if _, err := f.service.StartCheckout(ctx, "dev", validCustomer()); err != nil {
		t.Fatal(err)
	}

	pc, _ := f.pending.Load(ctx, "dev")
	if len(pc.Items) != 2 || pc.Total != 15000 {
		t.Errorf("second attempt must overwrite the first, got %+v", pc)
	}
}
