package requestid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is echoed from the client when present, generated otherwise, and
// attached to every response.
const Header = "X-Request-ID"

const localsKey = "request_id"

// Middleware assigns each request its correlation identifier.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(localsKey, id)
		c.Set(Header, id)
		return c.Next()
	}
}

// FromContext returns the identifier assigned to this request.
func FromContext(c *fiber.Ctx) string {
	if id, ok := c.Locals(localsKey).(string); ok {
		return id
	}
	return ""
}
