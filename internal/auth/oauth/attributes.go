// Package oauth normalizes external identity-provider payloads into one
// canonical federated identity and resolves it to a local principal.
package oauth

import (
	"fmt"
	"strings"

	"github.com/ttogle918/KOCRUIT/internal/auth/domain"
	autherror "github.com/ttogle918/KOCRUIT/internal/errors"
)

// Supported provider registration ids. Anything else takes the default
// top-level extraction.
const (
	ProviderGoogle = "google"
	ProviderNaver  = "naver"
	ProviderKakao  = "kakao"
)

// Normalize maps one provider's raw attribute payload to a FederatedIdentity.
// Each provider nests its canonical fields differently: naver wraps
// everything under "response", kakao under "kakao_account" (display name one
// level deeper under "profile"), google exposes them at top level. A payload
// without an email fails; a principal must never be created with an empty
// subject.
func Normalize(provider string, attrs map[string]any) (*domain.FederatedIdentity, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))

	var identity *domain.FederatedIdentity
	switch provider {
	case ProviderNaver:
		identity = ofNaver(attrs)
	case ProviderKakao:
		identity = ofKakao(attrs)
	default:
		identity = ofDefault(provider, attrs)
	}

	if identity.Email == "" {
		return nil, fmt.Errorf("%w: email (provider %s)", autherror.ErrMissingRequiredAttribute, provider)
	}
	return identity, nil
}

func ofNaver(attrs map[string]any) *domain.FederatedIdentity {
	response := nested(attrs, "response")
	return &domain.FederatedIdentity{
		Provider:    ProviderNaver,
		ProviderKey: "id",
		Email:       str(response, "email"),
		Name:        str(response, "name"),
		Attributes:  attrs,
	}
}

func ofKakao(attrs map[string]any) *domain.FederatedIdentity {
	account := nested(attrs, "kakao_account")
	return &domain.FederatedIdentity{
		Provider:    ProviderKakao,
		ProviderKey: "id",
		Email:       str(account, "email"),
		Name:        str(nested(account, "profile"), "nickname"),
		Attributes:  attrs,
	}
}

func ofDefault(provider string, attrs map[string]any) *domain.FederatedIdentity {
	if provider == "" {
		provider = ProviderGoogle
	}
	return &domain.FederatedIdentity{
		Provider:    provider,
		ProviderKey: "sub",
		Email:       str(attrs, "email"),
		Name:        str(attrs, "name"),
		Attributes:  attrs,
	}
}

func nested(attrs map[string]any, key string) map[string]any {
	if attrs == nil {
		return nil
	}
	m, _ := attrs[key].(map[string]any)
	return m
}

func str(attrs map[string]any, key string) string {
	if attrs == nil {
		return ""
	}
	s, _ := attrs[key].(string)
	return s
}
