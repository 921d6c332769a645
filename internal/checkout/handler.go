package checkout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/kittipat-l/couture-backend/internal/device"
	"github.com/kittipat-l/couture-backend/internal/pricing"
)

// Handler exposes the checkout orchestration.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/checkout/session", h.createSession)
}

func (h *Handler) createSession(c *fiber.Ctx) error {
	deviceID, err := device.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "missing device id"})
	}

	payload := new(Customer)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	url, err := h.service.StartCheckout(c.Context(), deviceID, *payload)
	if err != nil {
		var vErr *ValidationError
		switch {
		case errors.As(err, &vErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": vErr.Error(), "field": vErr.Field})
		case errors.Is(err, ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart is empty"})
		case errors.Is(err, pricing.ErrBelowMinimum):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "order total is below the minimum, please add more items"})
		case errors.Is(err, ErrProvider):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"url": url})
}
