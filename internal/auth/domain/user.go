package domain

import (
	"strings"
	"time"
)

// Role is the closed set of principal roles. The canonical representation is
// lower-case; ParseRole normalizes once at the boundary (token claims, DB rows,
// admin input) so no other layer needs case transformations.
type Role string

const (
	RoleUser    Role = "user"    // ordinary signed-up user
	RoleMember  Role = "member"  // applicant member
	RoleManager Role = "manager" // company manager
	RoleAdmin   Role = "admin"
)

// ParseRole normalizes s to the canonical lower-case form.
// Unknown values map to RoleUser so a stale claim never grants privileges.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleMember:
		return RoleMember
	case RoleManager:
		return RoleManager
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// Valid reports whether r is one of the defined roles in canonical form.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleMember, RoleManager, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// User is the principal record. PasswordHash is empty for federated-only
// accounts; such users can only authenticate through a provider.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FederatedIdentity is the transient result of normalizing one provider
// payload. It exists only for the duration of a federated-login exchange.
type FederatedIdentity struct {
	Provider    string
	ProviderKey string // provider-side subject attribute name ("id", "sub", ...)
	Email       string
	Name        string
	Attributes  map[string]any
}
