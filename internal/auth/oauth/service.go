package oauth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ttogle918/KOCRUIT/internal/auth/domain"
	"github.com/ttogle918/KOCRUIT/internal/logger"
)

// Service resolves federated identities to local principals.
type Service struct {
	repo domain.UserRepository
}

func NewService(repo domain.UserRepository) *Service {
	return &Service{repo: repo}
}

// ResolveUser loads the principal for a normalized identity, creating it on
// first federated login with the default non-privileged role and no password
// credential. Repeat logins return the stored principal unchanged: profile
// fields from the provider never overwrite local ones.
func (s *Service) ResolveUser(ctx context.Context, identity *domain.FederatedIdentity) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up federated user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	logger.L().Infow("creating user on first federated login",
		"provider", identity.Provider, "email", identity.Email)

	now := time.Now()
	user = &domain.User{
		ID:        uuid.NewString(),
		Email:     identity.Email,
		Name:      identity.Name,
		Role:      domain.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create federated user: %w", err)
	}

	return user, nil
}
