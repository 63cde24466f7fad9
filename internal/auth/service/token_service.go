package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/ttogle918/KOCRUIT/internal/auth/service TokenGenerator

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ttogle918/KOCRUIT/internal/auth/domain"
	autherror "github.com/ttogle918/KOCRUIT/internal/errors"
	"github.com/ttogle918/KOCRUIT/pkg/constant"
)

type TokenGenerator interface {
	Issue(subject string, role domain.Role, kind string) (string, error)
	Generate(email string, role domain.Role) (string, string, time.Time, error)
	ParseAndVerify(tokenString string) (*JWTCustomClaims, error)
	GetRefreshTokenExpiry() time.Duration
}

// TokenService signs and verifies the compact session tokens. One shared
// HS256 secret covers both kinds; the "kind" claim tells them apart.
type TokenService struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	now func() time.Time
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
	Kind string `json:"kind"`
}

func NewTokenService(secret string, accessMinutes, refreshMinutes int) *TokenService {
	return &TokenService{
		Secret:             secret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

func (ts *TokenService) ttl(kind string) time.Duration {
	if kind == constant.TokenKindRefresh {
		return ts.RefreshTokenExpiry
	}
	return ts.AccessTokenExpiry
}

// Issue signs a single token of the given kind for the subject. Timestamps
// are second-granular (JWT NumericDate); no clock-skew compensation.
func (ts *TokenService) Issue(subject string, role domain.Role, kind string) (string, error) {
	now := ts.now()
	claims := JWTCustomClaims{
		Role: role.String(),
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl(kind))),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.Secret))
}

// Generate issues the access+refresh pair handed out on login and federated
// login. Returns the access token's expiry for callers that expose it.
func (ts *TokenService) Generate(email string, role domain.Role) (string, string, time.Time, error) {
	accessToken, err := ts.Issue(email, role, constant.TokenKindAccess)
	if err != nil {
		return "", "", time.Time{}, err
	}

	refreshToken, err := ts.Issue(email, role, constant.TokenKindRefresh)
	if err != nil {
		return "", "", time.Time{}, err
	}

	return accessToken, refreshToken, ts.now().Add(ts.AccessTokenExpiry), nil
}

func (ts *TokenService) GetAccessTokenExpiry() time.Duration {
	return ts.AccessTokenExpiry
}

func (ts *TokenService) GetRefreshTokenExpiry() time.Duration {
	return ts.RefreshTokenExpiry
}

// ParseAndVerify parses and validates a token string. Failures map onto the
// codec error taxonomy; anything signed with a different method (including
// "none") fails as an invalid signature.
func (ts *TokenService) ParseAndVerify(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherror.ErrInvalidSignature
		}
		return []byte(ts.Secret), nil
	})

	if err != nil {
		return nil, mapJWTError(err)
	}

	if !token.Valid {
		return nil, autherror.ErrMalformedToken
	}

	return claims, nil
}

// RemainingLifetime returns how long the token stays naturally valid, used to
// bound revocation entries. Zero when the expiry has passed or is absent.
func (ts *TokenService) RemainingLifetime(claims *JWTCustomClaims) time.Duration {
	if claims == nil || claims.ExpiresAt == nil {
		return 0
	}
	remaining := claims.ExpiresAt.Time.Sub(ts.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return autherror.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, autherror.ErrInvalidSignature):
		return autherror.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return autherror.ErrMalformedToken
	default:
		return autherror.ErrMalformedToken
	}
}
