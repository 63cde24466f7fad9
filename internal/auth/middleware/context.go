package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/ttogle918/KOCRUIT/internal/auth/domain"
	"github.com/ttogle918/KOCRUIT/pkg/constant"
)

// principalContextKey keys the authenticated principal in a request context.
// An empty struct type cannot collide with keys from other packages.
type principalContextKey struct{}

// WithPrincipal stores the authenticated principal in the context.
func WithPrincipal(ctx context.Context, user *domain.User) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, principalContextKey{}, user)
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(principalContextKey{}).(*domain.User)
	return user, ok
}

// CurrentPrincipal returns the principal the gate attached to this request.
// False on public paths and before the gate has run.
func CurrentPrincipal(c *fiber.Ctx) (*domain.User, bool) {
	if user, ok := c.Locals(constant.LocalsPrincipal).(*domain.User); ok {
		return user, true
	}
	return PrincipalFromContext(c.UserContext())
}
