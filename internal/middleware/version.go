package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/localnerve/trackdb/internal/types"
)

// APIVersion negotiates the X-Api-Version request header. Missing or
// alias forms resolve to the current version; anything outside the 1.x
// line is rejected before routing. The resolved version is echoed back
// on the response so clients can detect alias resolution.
func APIVersion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", "1.0.0")

		switch version {
		case "1", "1.0":
			version = "1.0.0"
		}

		if !strings.HasPrefix(version, "1.") {
			return types.Invalid("unsupported api version %q", version)
		}

		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", version)

		return c.Next()
	}
}
