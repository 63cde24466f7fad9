package errors

import (
	"errors"
)

var (
	// Token codec failures.
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrWrongTokenKind   = errors.New("wrong token kind")

	// Revocation.
	ErrTokenRevoked     = errors.New("token revoked")
	ErrStoreUnavailable = errors.New("revocation store unavailable")

	// Federation.
	ErrMissingRequiredAttribute = errors.New("missing required provider attribute")

	// Principals and credentials.
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyInUse  = errors.New("email already in use")
)
