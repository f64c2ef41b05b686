package ports

import (
	"context"

	"github.com/ecoride/auth-service/internal/core/domain"
)

// RegisterInput carries the registration payload. Email, Password and Role
// are required; the remaining profile fields are optional.
type RegisterInput struct {
	Email      string
	Password   string
	Role       string
	FirstName  string
	MiddleName string
	LastName   string
	Phone      string
	SchoolID   string
	LicenseID  string
	Sex        string
}

// UpdateProfileInput uses pointers to distinguish "not supplied" (nil) from
// "explicitly empty". Nullable fields (MiddleName, SchoolID, LicenseID) are
// cleared by an explicit empty string; the others are only applied when
// supplied non-empty.
type UpdateProfileInput struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	Phone      *string
	SchoolID   *string
	LicenseID  *string
	Email      *string
	Sex        *string
}

// AuthResult is the outcome of a flow that authenticates an identity.
// Created reports whether the identity was created by this call.
type AuthResult struct {
	User         *domain.Identity
	AccessToken  string
	RefreshToken string
	Created      bool
}

// TokenPair is a freshly minted access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService implements the authentication flows.
type AuthService interface {
	Login(ctx context.Context, email, password, role string) (*AuthResult, error)
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	LegacyAuth(ctx context.Context, phone, role string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Profile(ctx context.Context, id string) (*domain.Identity, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.Identity, error)
}
