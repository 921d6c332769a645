package cart

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/kittipat-l/couture-backend/internal/device"
)

// Handler delegates cart operations to the cart service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Put("/api/v1/cart/items", h.setQuantity)
	app.Delete("/api/v1/cart/items", h.removeItem)
	app.Delete("/api/v1/cart", h.clearCart)
}

type itemRequest struct {
	ProductID     int    `json:"productId"`
	Name          string `json:"name"`
	UnitPrice     int64  `json:"unitPrice"`
	Quantity      int    `json:"quantity"`
	Size          string `json:"size"`
	Customization string `json:"customization"`
	Image         string `json:"image"`
}

type lineKeyRequest struct {
	ProductID int    `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	deviceID, err := device.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "missing device id"})
	}

	payload := new(itemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	items, err := h.service.Add(c.Context(), deviceID, Item{
		ProductID:     payload.ProductID,
		Name:          payload.Name,
		UnitPrice:     payload.UnitPrice,
		Quantity:      payload.Quantity,
		Size:          payload.Size,
		Customization: payload.Customization,
		Image:         payload.Image,
	})
	if errors.Is(err, ErrHistoryTrimmed) {
		return c.JSON(fiber.Map{"items": items, "warning": err.Error()})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *Handler) setQuantity(c *fiber.Ctx) error {
	deviceID, err := device.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "missing device id"})
	}

	payload := new(lineKeyRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	items, err := h.service.SetQuantity(c.Context(), deviceID, payload.ProductID, payload.Size, payload.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, ErrItemNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "item not in cart"})
		case errors.Is(err, ErrHistoryTrimmed):
			return c.JSON(fiber.Map{"items": items, "warning": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	deviceID, err := device.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "missing device id"})
	}

	payload := new(lineKeyRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	items, err := h.service.Remove(c.Context(), deviceID, payload.ProductID, payload.Size)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "item not in cart"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	deviceID, err := device.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "missing device id"})
	}

	items, err := h.service.Items(c.Context(), deviceID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	deviceID, err := device.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "missing device id"})
	}

	if err := h.service.Clear(c.Context(), deviceID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "cart cleared"})
}
