package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/ttogle918/KOCRUIT/internal/auth/domain UserRepository
//go:generate mockgen -destination=../../mocks/mock_revocation_store.go -package=mocks github.com/ttogle918/KOCRUIT/internal/auth/domain RevocationStore

// UserRepository is the "look up user by email" collaborator the auth core
// consumes. Lookups return (nil, nil) when no row exists.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id string, role Role) error
}

// RevocationStore records revoked refresh tokens until their natural expiry.
// Implementations must be safe for concurrent use and shared across server
// instances; Revoke must fail loudly when the backing store is unreachable.
type RevocationStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
