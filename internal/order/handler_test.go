package order

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/kittipat-l/couture-backend/internal/device"
)

func newTestApp(f *fixture) *fiber.App {
	app := fiber.New()
	NewHandler(f.service).RegisterPublicRoutes(app)
	return app
}

func TestCheckoutReturn_MissingDeviceID(t *testing.T) {
	app := newTestApp(newFixture(nil))

	req := httptest.NewRequest("GET", "/api/v1/checkout/return?checkout=success&session_id=sess-1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCheckoutReturn_CancelledNavigation(t *testing.T) {
	app := newTestApp(newFixture(nil))

	req := httptest.NewRequest("GET", "/api/v1/checkout/return?canceled=true", nil)
	req.Header.Set(device.Header, "dev")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Outcome string `json:"outcome"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Outcome != string(NoPendingCheckout) {
		t.Errorf("cancelled return must not reconcile, got %q", body.Outcome)
	}
}

func TestCheckoutReturn_SuccessCommitsOrder(t *testing.T) {
	f := newFixture(nil)
	f.pending.Stage(context.Background(), "dev", stagedCheckout())
	app := newTestApp(f)

	req := httptest.NewRequest("GET", "/api/v1/checkout/return?checkout=success&session_id=sess-1", nil)
	req.Header.Set(device.Header, "dev")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Outcome string `json:"outcome"`
		Order   Order  `json:"order"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Outcome != string(NewlyReconciled) {
		t.Fatalf("expected newlyReconciled, got %q", body.Outcome)
	}
	if body.Order.OrderNumber != 1 || body.Order.ProviderSessionID != "sess-1" {
		t.Errorf("unexpected order %+v", body.Order)
	}
}
