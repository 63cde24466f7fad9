// Package middleware contains the per-request authentication gate.
package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ttogle918/KOCRUIT/internal/auth/domain"
	"github.com/ttogle918/KOCRUIT/internal/auth/service"
	autherror "github.com/ttogle918/KOCRUIT/internal/errors"
	"github.com/ttogle918/KOCRUIT/internal/logger"
	"github.com/ttogle918/KOCRUIT/pkg/constant"
)

// Gate classifies each request as public or protected, validates the bearer
// token on protected paths and attaches the resolved principal to the
// request context. It is the only place a request transitions from
// unauthenticated to authenticated.
type Gate struct {
	tokenService   service.TokenGenerator
	repo           domain.UserRepository
	revocation     domain.RevocationStore
	publicPrefixes []string
}

func NewGate(tokenService service.TokenGenerator, repo domain.UserRepository,
	revocation domain.RevocationStore, publicPrefixes []string) *Gate {
	return &Gate{
		tokenService:   tokenService,
		repo:           repo,
		revocation:     revocation,
		publicPrefixes: publicPrefixes,
	}
}

// Handler returns the fiber middleware.
func (g *Gate) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if g.isPublic(c.Path()) {
			return c.Next()
		}

		token := ExtractBearer(c.Get(constant.AuthorizationHeader))
		if token == "" {
			return unauthorized(c, "missing or invalid token")
		}

		claims, err := g.tokenService.ParseAndVerify(token)
		if err != nil {
			// Expired is reported distinctly so clients know to refresh;
			// signature and structure failures share a generic message and
			// the specific reason stays in the server log.
			if errors.Is(err, autherror.ErrTokenExpired) {
				return unauthorized(c, "token expired")
			}
			logger.L().Warnw("token verification failed", "path", c.Path(), "error", err)
			return unauthorized(c, "missing or invalid token")
		}

		if claims.Kind == constant.TokenKindRefresh {
			revoked, err := g.revocation.IsRevoked(c.UserContext(), token)
			if err != nil {
				// Store unreachable: fail closed rather than accept a token
				// that may have been revoked on another instance.
				logger.L().Errorw("revocation store unreachable, rejecting request",
					"path", c.Path(), "error", err)
				return unauthorized(c, "missing or invalid token")
			}
			if revoked {
				return unauthorized(c, "missing or invalid token")
			}
		}

		user, err := g.repo.GetByEmail(c.UserContext(), claims.Subject)
		if err != nil {
			logger.L().Errorw("principal lookup failed", "error", err)
			return unauthorized(c, "missing or invalid token")
		}
		if user == nil {
			logger.L().Warnw("token subject has no principal", "subject", claims.Subject)
			return unauthorized(c, "missing or invalid token")
		}

		c.Locals(constant.LocalsPrincipal, user)
		c.Locals(constant.LocalsRole, user.Role)
		c.SetUserContext(WithPrincipal(c.UserContext(), user))

		return c.Next()
	}
}

func (g *Gate) isPublic(path string) bool {
	for _, prefix := range g.publicPrefixes {
		if prefix == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// ExtractBearer pulls the token out of an Authorization header value,
// tolerating surrounding whitespace. Every consumer of the header goes
// through this so the same value never parses two ways.
func ExtractBearer(header string) string {
	if !strings.HasPrefix(header, constant.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, constant.BearerPrefix))
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}
