package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ttogle918/KOCRUIT/internal/authz"
)

// RequireCapability guards a route behind one capability. It must run after
// the gate: an unauthenticated request is rejected as 401, an authenticated
// principal whose role lacks the capability as 403.
func RequireCapability(capability authz.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentPrincipal(c)
		if !ok {
			return unauthorized(c, "missing or invalid token")
		}
		if !authz.Can(user.Role, capability) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient role",
			})
		}
		return c.Next()
	}
}
