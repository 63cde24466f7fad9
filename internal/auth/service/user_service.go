package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ttogle918/KOCRUIT/internal/auth/domain"
	"github.com/ttogle918/KOCRUIT/internal/auth/dto"
	autherror "github.com/ttogle918/KOCRUIT/internal/errors"
	"github.com/ttogle918/KOCRUIT/internal/logger"
	"github.com/ttogle918/KOCRUIT/pkg/constant"
)

type UserService struct {
	repo         domain.UserRepository
	tokenService TokenGenerator
	revocation   domain.RevocationStore
}

func NewUserService(repo domain.UserRepository, tokenService TokenGenerator, revocation domain.RevocationStore) *UserService {
	return &UserService{
		repo:         repo,
		tokenService: tokenService,
		revocation:   revocation,
	}
}

func (s *UserService) Signup(ctx context.Context, input dto.SignupInput) (*domain.User, error) {
	existingUser, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	// Federated-only accounts have no password hash and cannot log in locally.
	if user == nil || user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, autherror.ErrInvalidCredentials
	}

	accessToken, refreshToken, _, err := s.tokenService.Generate(user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh validates a refresh token against the codec and the revocation
// store and issues a new access token. The refresh token itself is returned
// unchanged; it stays valid until logout or natural expiry.
func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenResponse, error) {
	claims, err := s.tokenService.ParseAndVerify(input.RefreshToken)
	if err != nil {
		return nil, err
	}

	if claims.Kind != constant.TokenKindRefresh {
		return nil, autherror.ErrWrongTokenKind
	}

	revoked, err := s.revocation.IsRevoked(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, autherror.ErrTokenRevoked
	}

	// Re-fetch so a role change since issuance lands in the new access token.
	user, err := s.repo.GetByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrPrincipalNotFound
	}

	accessToken, err := s.tokenService.Issue(user.Email, user.Role, constant.TokenKindAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: input.RefreshToken,
	}, nil
}

// Logout blacklists the refresh token for its remaining lifetime. When the
// lifetime cannot be derived from the token, the configured maximum refresh
// TTL bounds the entry instead.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	ttl := s.tokenService.GetRefreshTokenExpiry()

	claims, err := s.tokenService.ParseAndVerify(refreshToken)
	switch {
	case err == nil:
		if claims.Kind != constant.TokenKindRefresh {
			return autherror.ErrWrongTokenKind
		}
		if claims.ExpiresAt != nil {
			if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 && remaining < ttl {
				ttl = remaining
			}
		}
	case errors.Is(err, autherror.ErrTokenExpired):
		// Nothing left to revoke.
		return nil
	default:
		return err
	}

	if err := s.revocation.Revoke(ctx, refreshToken, ttl); err != nil {
		logger.L().Errorw("failed to revoke refresh token", "error", err)
		return err
	}

	return nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) UpdateUserRole(ctx context.Context, id, role string) error {
	parsed := domain.ParseRole(role)
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrPrincipalNotFound
	}
	return s.repo.UpdateRole(ctx, id, parsed)
}
