package device

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Header names the request header carrying the device identifier. Every
// piece of per-device state (cart, pending checkout, currency selection)
// is namespaced by it.
const Header = "X-Device-ID"

var ErrMissing = errors.New("missing device id")

// FromCtx extracts the device identifier from the request.
func FromCtx(c *fiber.Ctx) (string, error) {
	id := c.Get(Header)
	if id == "" {
		return "", ErrMissing
	}
	return id, nil
}
