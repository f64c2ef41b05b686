package service

import (
	"errors"
	"testing"
	"time"

	"github.com/ecoride/auth-service/internal/core/domain"
)

func newTestTokenService() *TokenService {
	return NewTokenService(TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
}

func TestTokenService_AccessRoundtrip(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.IssueAccessToken("user_1", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims.Subject != "user_1" {
		t.Fatalf("expected subject user_1, got %s", claims.Subject)
	}
	if claims.Role != domain.RoleCustomer {
		t.Fatalf("expected role customer, got %s", claims.Role)
	}
}

func TestTokenService_RefreshRoundtrip(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.IssueRefreshToken("user_2")
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	id, err := svc.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("validate refresh token: %v", err)
	}
	if id != "user_2" {
		t.Fatalf("expected subject user_2, got %s", id)
	}
}

func TestTokenService_TokensNotInterchangeable(t *testing.T) {
	svc := newTestTokenService()

	access, err := svc.IssueAccessToken("user_3", domain.RoleRider)
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}
	refresh, err := svc.IssueRefreshToken("user_3")
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	if _, err := svc.ValidateRefreshToken(access); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
	if _, err := svc.ValidateAccessToken(refresh); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	svc := newTestTokenService()
	other := NewTokenService(TokenConfig{
		AccessSecret:  "different-access",
		RefreshSecret: "different-refresh",
	})

	token, err := other.IssueRefreshToken("user_4")
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	if _, err := svc.ValidateRefreshToken(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService(TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     -time.Minute,
		RefreshTTL:    time.Hour,
	})
	// Negative TTL falls back to the default, so mint through a dedicated
	// instance whose refresh TTL is in the past.
	expired := &TokenService{cfg: TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    -time.Minute,
	}}

	token, err := expired.IssueRefreshToken("user_5")
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	if _, err := svc.ValidateRefreshToken(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenService_Malformed(t *testing.T) {
	svc := newTestTokenService()

	if _, err := svc.ValidateRefreshToken("not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
	if _, err := svc.ValidateAccessToken(""); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}
