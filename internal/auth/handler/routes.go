package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ttogle918/KOCRUIT/internal/auth/middleware"
	"github.com/ttogle918/KOCRUIT/internal/authz"
	"github.com/ttogle918/KOCRUIT/internal/logger"
)

// ErrorHandler renders every error that escapes a handler, recovered panics
// included, as the JSON error envelope clients expect. Internal details stay
// in the server log.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code != fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	logger.L().Errorw("unhandled error", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// RegisterRoutes mounts the auth surface. Panic recovery runs first so a
// crashing handler surfaces through ErrorHandler instead of killing the
// connection; the gate runs on everything after that, and its public-prefix
// allow-list lets the signup/login/refresh/federated endpoints through
// without a token.
func RegisterRoutes(app *fiber.App, h *AuthHandler, gate fiber.Handler) {
	app.Use(recover.New())
	app.Use(gate)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	auth := app.Group("/auth")
	auth.Post("/signup", h.Signup)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", h.Me)
	auth.Get("/oauth/:provider/callback", h.FederatedCallback)
	auth.Post("/oauth/:provider/callback", h.FederatedCallback)

	// Admin-only endpoints
	admin := app.Group("/admin", middleware.RequireCapability(authz.CapManageUsers))
	admin.Get("/users", h.GetAllUsers)
	admin.Patch("/users/:id/role", h.UpdateUserRole)
}
