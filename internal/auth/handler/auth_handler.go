package handler

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/ttogle918/KOCRUIT/internal/auth/dto"
	"github.com/ttogle918/KOCRUIT/internal/auth/middleware"
	"github.com/ttogle918/KOCRUIT/internal/auth/oauth"
	"github.com/ttogle918/KOCRUIT/internal/auth/service"
	autherror "github.com/ttogle918/KOCRUIT/internal/errors"
	"github.com/ttogle918/KOCRUIT/internal/logger"
	"github.com/ttogle918/KOCRUIT/pkg/constant"
)

type AuthHandler struct {
	userService  *service.UserService
	oauthService *oauth.Service
	tokenService service.TokenGenerator
	frontendURL  string
}

func NewAuthHandler(userService *service.UserService, oauthService *oauth.Service,
	tokenService service.TokenGenerator, frontendURL string) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		oauthService: oauthService,
		tokenService: tokenService,
		frontendURL:  frontendURL,
	}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var input dto.SignupInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}
	if input.Email == "" || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email and password are required",
		})
	}

	user, err := h.userService.Signup(c.UserContext(), input)
	if err != nil {
		if errors.Is(err, autherror.ErrEmailAlreadyInUse) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": autherror.ErrEmailAlreadyInUse.Error(),
			})
		}
		logger.L().Errorw("signup failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "signup failed",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID,
		"email": user.Email,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	tokenPair, err := h.userService.Login(c.UserContext(), input)
	if err != nil {
		if errors.Is(err, autherror.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": autherror.ErrInvalidCredentials.Error(),
			})
		}
		logger.L().Errorw("login failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "login failed",
		})
	}

	return c.Status(fiber.StatusOK).JSON(tokenPair)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	tokens, err := h.userService.Refresh(c.UserContext(), input)
	if err != nil {
		switch {
		case errors.Is(err, autherror.ErrTokenExpired):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token expired"})
		case errors.Is(err, autherror.ErrTokenRevoked):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token revoked"})
		case errors.Is(err, autherror.ErrStoreUnavailable):
			logger.L().Errorw("refresh rejected, revocation store unreachable", "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid refresh token"})
		default:
			logger.L().Warnw("refresh rejected", "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid refresh token"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

// Logout blacklists the presented refresh token. The token travels in the
// Authorization header, matching the original client behavior.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := middleware.ExtractBearer(c.Get(constant.AuthorizationHeader))
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing token"})
	}

	if err := h.userService.Logout(c.UserContext(), token); err != nil {
		if errors.Is(err, autherror.ErrStoreUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "logout failed, try again",
			})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}
	return c.Status(fiber.StatusOK).JSON(dto.NewUserOutput(user))
}

// FederatedCallback finishes a federated login: the provider payload is
// normalized, resolved to a principal, and the client is redirected to the
// frontend with a fresh token pair in the query string. Attribute errors
// redirect to the frontend error state, never a raw trace.
//
// The attribute payload is trusted as delivered: the route must only be
// reachable through the provider-facing proxy that performed the code
// exchange, never directly from the public internet.
func (h *AuthHandler) FederatedCallback(c *fiber.Ctx) error {
	provider := c.Params("provider")

	var attrs map[string]any
	if err := c.BodyParser(&attrs); err != nil {
		return h.redirectLoginError(c)
	}

	identity, err := oauth.Normalize(provider, attrs)
	if err != nil {
		logger.L().Warnw("federated payload rejected", "provider", provider, "error", err)
		return h.redirectLoginError(c)
	}

	user, err := h.oauthService.ResolveUser(c.UserContext(), identity)
	if err != nil {
		logger.L().Errorw("federated principal resolution failed", "provider", provider, "error", err)
		return h.redirectLoginError(c)
	}

	accessToken, refreshToken, _, err := h.tokenService.Generate(user.Email, user.Role)
	if err != nil {
		logger.L().Errorw("federated token issuance failed", "error", err)
		return h.redirectLoginError(c)
	}

	target := fmt.Sprintf("%s/oauth/redirect?accessToken=%s&refreshToken=%s",
		h.frontendURL, url.QueryEscape(accessToken), url.QueryEscape(refreshToken))
	return c.Redirect(target, fiber.StatusFound)
}

func (h *AuthHandler) redirectLoginError(c *fiber.Ctx) error {
	return c.Redirect(h.frontendURL+"/login?error=oauth", fiber.StatusFound)
}
