package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/kittipat-l/couture-backend/internal/account"
	"github.com/kittipat-l/couture-backend/internal/device"
)

type Handler struct {
	service *Service
}

type statusRequest struct {
	Status string `json:"status"`
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/checkout/return", h.checkoutReturn)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/orders", h.listOrders)
	app.Patch("/api/v1/orders/:number/status", h.updateStatus)
}

// checkoutReturn is where the provider sends the shopper back. It runs
// on every load of the return page, so re-visits and refreshes hit the
// same endpoint and must come out clean.
func (h *Handler) checkoutReturn(c *fiber.Ctx) error {
	deviceID, err := device.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "missing device id"})
	}

	if c.Query("checkout") != "success" {
		return c.JSON(fiber.Map{"outcome": string(NoPendingCheckout)})
	}

	sessionID := c.Query("session_id")
	saveAddress := c.Query("save_address") == "true"

	result, err := h.service.Reconcile(c.Context(), deviceID, sessionID, saveAddress)
	if err != nil {
		if errors.Is(err, ErrLedgerWrite) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "order could not be recorded, it will be retried"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	resp := fiber.Map{"outcome": string(result.Outcome)}
	if result.Outcome == NewlyReconciled {
		resp["order"] = result.Order
	}
	return c.JSON(resp)
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	email, err := account.EmailFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.ListByOwner(email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if orders == nil {
		orders = []Order{}
	}
	return c.JSON(fiber.Map{"orders": orders})
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	email, err := account.EmailFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	number, err := c.ParamsInt("number")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order number"})
	}

	payload := new(statusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	o, err := h.service.UpdateStatus(email, number, Status(payload.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case errors.Is(err, ErrInvalidTransition):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(o)
}
