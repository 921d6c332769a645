package currency

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the display-currency state to the storefront pages.
type Handler struct {
	resolver *Resolver
}

func NewHandler(r *Resolver) *Handler {
	return &Handler{resolver: r}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/currency", h.getState)
	app.Post("/api/v1/currency/consent", h.setConsent)
	app.Post("/api/v1/currency/location", h.setLocation)
}

func (h *Handler) getState(c *fiber.Ctx) error {
	st := h.resolver.State()

	// optional ?amount= renders a sample price for the display layer
	if raw := c.Query("amount"); raw != "" {
		amount, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid amount"})
		}
		return c.JSON(fiber.Map{"state": st, "formatted": h.resolver.Format(amount)})
	}
	return c.JSON(fiber.Map{"state": st})
}

type consentRequest struct {
	Accepted bool `json:"accepted"`
}

func (h *Handler) setConsent(c *fiber.Ctx) error {
	payload := new(consentRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	st := h.resolver.SetConsent(c.Context(), payload.Accepted)
	return c.JSON(fiber.Map{"state": st})
}

func (h *Handler) setLocation(c *fiber.Ctx) error {
	payload := new(Location)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Country == "" && payload.CountryCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "country is required"})
	}
	st := h.resolver.SetLocation(c.Context(), *payload)
	return c.JSON(fiber.Map{"state": st})
}
