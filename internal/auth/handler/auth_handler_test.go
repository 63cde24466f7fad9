package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ttogle918/KOCRUIT/internal/auth/domain"
	"github.com/ttogle918/KOCRUIT/internal/auth/dto"
	"github.com/ttogle918/KOCRUIT/internal/auth/handler"
	"github.com/ttogle918/KOCRUIT/internal/auth/oauth"
	"github.com/ttogle918/KOCRUIT/internal/auth/service"
	"github.com/ttogle918/KOCRUIT/internal/mocks"
	"github.com/ttogle918/KOCRUIT/pkg/constant"
)

const testFrontendURL = "http://localhost:5173"

type handlerFixture struct {
	app          *fiber.App
	repo         *mocks.MockUserRepository
	revocation   *mocks.MockRevocationStore
	tokenService *service.TokenService
	handler      *handler.AuthHandler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockUserRepository(ctrl)
	revocation := mocks.NewMockRevocationStore(ctrl)
	tokenService := service.NewTokenService("handler-secret", 15, 10080)
	userService := service.NewUserService(repo, tokenService, revocation)
	oauthService := oauth.NewService(repo)
	h := handler.NewAuthHandler(userService, oauthService, tokenService, testFrontendURL)

	return &handlerFixture{
		app:          fiber.New(),
		repo:         repo,
		revocation:   revocation,
		tokenService: tokenService,
		handler:      h,
	}
}

func jsonRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSignup(t *testing.T) {
	f := newHandlerFixture(t)
	f.app.Post("/auth/signup", f.handler.Signup)

	t.Run("success", func(t *testing.T) {
		input := dto.SignupInput{Email: "test@example.com", Name: "Test", Password: "password"}
		f.repo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/auth/signup", input))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	})

	t.Run("bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(""))
		req.Header.Set("Content-Type", "application/json")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("duplicate email", func(t *testing.T) {
		input := dto.SignupInput{Email: "dup@example.com", Name: "Dup", Password: "password"}
		f.repo.EXPECT().GetByEmail(gomock.Any(), input.Email).
			Return(&domain.User{Email: input.Email}, nil)

		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/auth/signup", input))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	f := newHandlerFixture(t)
	f.app.Post("/auth/login", f.handler.Login)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		ID:           "user-1",
		Email:        "test@example.com",
		Role:         domain.RoleUser,
		PasswordHash: string(hash),
	}

	t.Run("success returns token pair", func(t *testing.T) {
		f.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)

		input := dto.LoginInput{Email: user.Email, Password: "correct-password"}
		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/auth/login", input))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var tokens dto.TokenResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokens))
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		f.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)

		input := dto.LoginInput{Email: user.Email, Password: "wrong"}
		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/auth/login", input))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRefresh(t *testing.T) {
	f := newHandlerFixture(t)
	f.app.Post("/auth/refresh", f.handler.Refresh)

	user := &domain.User{ID: "user-1", Email: "test@example.com", Role: domain.RoleUser}
	refreshToken, err := f.tokenService.Issue(user.Email, user.Role, constant.TokenKindRefresh)
	require.NoError(t, err)

	t.Run("success returns same refresh token", func(t *testing.T) {
		f.revocation.EXPECT().IsRevoked(gomock.Any(), refreshToken).Return(false, nil)
		f.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)

		input := dto.RefreshInput{RefreshToken: refreshToken}
		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/auth/refresh", input))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var tokens dto.TokenResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokens))
		assert.Equal(t, refreshToken, tokens.RefreshToken)
		assert.NotEmpty(t, tokens.AccessToken)
	})

	t.Run("revoked token", func(t *testing.T) {
		f.revocation.EXPECT().IsRevoked(gomock.Any(), refreshToken).Return(true, nil)

		input := dto.RefreshInput{RefreshToken: refreshToken}
		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/auth/refresh", input))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		input := dto.RefreshInput{RefreshToken: "garbage"}
		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/auth/refresh", input))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogout(t *testing.T) {
	f := newHandlerFixture(t)
	f.app.Post("/auth/logout", f.handler.Logout)

	refreshToken, err := f.tokenService.Issue("test@example.com", domain.RoleUser, constant.TokenKindRefresh)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		f.revocation.EXPECT().Revoke(gomock.Any(), refreshToken, gomock.Any()).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.Header.Set(constant.AuthorizationHeader, constant.BearerPrefix+refreshToken)
		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("header with trailing whitespace", func(t *testing.T) {
		f.revocation.EXPECT().Revoke(gomock.Any(), refreshToken, gomock.Any()).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.Header.Set(constant.AuthorizationHeader, constant.BearerPrefix+refreshToken+"  ")
		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestFederatedCallback(t *testing.T) {
	f := newHandlerFixture(t)
	f.app.Post("/auth/oauth/:provider/callback", f.handler.FederatedCallback)

	t.Run("naver login redirects with tokens", func(t *testing.T) {
		payload := map[string]any{
			"response": map[string]any{
				"id":    "naver-1",
				"email": "a@x.com",
				"name":  "A",
			},
		}
		existing := &domain.User{ID: "user-1", Email: "a@x.com", Name: "A", Role: domain.RoleUser}
		f.repo.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(existing, nil)

		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/auth/oauth/naver/callback", payload))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)

		location := resp.Header.Get("Location")
		assert.True(t, strings.HasPrefix(location, testFrontendURL+"/oauth/redirect?"))
		assert.Contains(t, location, "accessToken=")
		assert.Contains(t, location, "refreshToken=")
	})

	t.Run("first login creates the principal", func(t *testing.T) {
		payload := map[string]any{
			"email": "new@gmail.com",
			"name":  "New",
			"sub":   "google-1",
		}
		f.repo.EXPECT().GetByEmail(gomock.Any(), "new@gmail.com").Return(nil, nil)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/auth/oauth/google/callback", payload))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	})

	t.Run("missing email redirects to error state", func(t *testing.T) {
		payload := map[string]any{
			"response": map[string]any{"name": "No Email"},
		}

		resp, err := f.app.Test(jsonRequest(t, http.MethodPost, "/auth/oauth/naver/callback", payload))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, testFrontendURL+"/login?error=oauth", resp.Header.Get("Location"))
	})
}

func TestMe(t *testing.T) {
	f := newHandlerFixture(t)

	user := &domain.User{ID: "user-1", Email: "me@example.com", Name: "Me", Role: domain.RoleMember}
	f.app.Get("/auth/me", func(c *fiber.Ctx) error {
		c.Locals(constant.LocalsPrincipal, user)
		return f.handler.Me(c)
	})
	f.app.Get("/auth/me-anon", f.handler.Me)

	t.Run("authenticated", func(t *testing.T) {
		resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/auth/me", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out dto.UserOutput
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, user.Email, out.Email)
		assert.Equal(t, "member", out.Role)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/auth/me-anon", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
