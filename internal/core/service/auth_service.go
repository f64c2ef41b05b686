package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecoride/auth-service/internal/core/domain"
	"github.com/ecoride/auth-service/internal/core/ports"
)

// LegacyGuard abstracts the short-lived creation lease (Redis) taken before
// auto-registering a legacy identity. Best-effort: guard failures shrink to
// a log line, they never fail the flow.
type LegacyGuard interface {
	Acquire(ctx context.Context, phone string) (bool, error)
	Release(ctx context.Context, phone string) error
}

// AuthService orchestrates the authentication flows against the identity
// store, the token service, and the audit trail. It holds no mutable state;
// every request is independent.
type AuthService struct {
	repo         ports.IdentityRepository
	tokens       ports.TokenService
	guard        LegacyGuard
	audit        ports.AuditSink
	legacyDomain string
	logger       zerolog.Logger
}

func NewAuthService(
	repo ports.IdentityRepository,
	tokens ports.TokenService,
	guard LegacyGuard,
	audit ports.AuditSink,
	legacyDomain string,
	logger zerolog.Logger,
) *AuthService {
	if legacyDomain == "" {
		legacyDomain = "temp.ecoride.com"
	}
	return &AuthService{
		repo:         repo,
		tokens:       tokens,
		guard:        guard,
		audit:        audit,
		legacyDomain: legacyDomain,
		logger:       logger,
	}
}

// Login authenticates an identity by (email, role) and password. Unknown
// email and wrong password collapse to the same ErrInvalidCredentials so the
// response never reveals whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password, role string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: please provide email and password", domain.ErrInvalidRequest)
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: valid role is required (customer or rider)", domain.ErrInvalidRequest)
	}

	identity, err := s.repo.FindByEmailAndRole(ctx, email, role)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			s.record(ports.AuditFlowLogin, nil, email, "", role, ports.AuditOutcomeFailed)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		s.record(ports.AuditFlowLogin, identity, email, "", role, ports.AuditOutcomeFailed)
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issuePair(identity)
	if err != nil {
		return nil, err
	}

	s.record(ports.AuditFlowLogin, identity, email, "", role, ports.AuditOutcomeSucceeded)
	return &ports.AuthResult{User: identity, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// Register creates a password identity. Email uniqueness is pre-checked
// store-wide and backstopped by the unique index, which surfaces
// ErrEmailExists from Insert if a concurrent registration wins the race.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: please provide email and password", domain.ErrInvalidRequest)
	}
	if !domain.ValidRole(input.Role) {
		return nil, fmt.Errorf("%w: valid role is required (customer or rider)", domain.ErrInvalidRequest)
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrIdentityNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	identity := &domain.Identity{
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: string(hash),
		Role:         input.Role,
		Origin:       domain.OriginPassword,
		FirstName:    input.FirstName,
		MiddleName:   input.MiddleName,
		LastName:     input.LastName,
		SchoolID:     input.SchoolID,
		LicenseID:    input.LicenseID,
		Sex:          input.Sex,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Insert(ctx, identity)
	if err != nil {
		return nil, err
	}

	pair, err := s.issuePair(created)
	if err != nil {
		return nil, err
	}

	s.record(ports.AuditFlowRegister, created, created.Email, "", created.Role, ports.AuditOutcomeCreated)
	return &ports.AuthResult{User: created, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken, Created: true}, nil
}

// LegacyAuth trusts a phone-number lookup instead of a secret. A phone bound
// to another role is rejected; an unseen phone auto-registers a legacy
// identity with a synthetic email and a placeholder password nobody knows.
func (s *AuthService) LegacyAuth(ctx context.Context, phone, role string) (*ports.AuthResult, error) {
	if phone == "" {
		return nil, fmt.Errorf("%w: phone number is required", domain.ErrInvalidRequest)
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: valid role is required (customer or rider)", domain.ErrInvalidRequest)
	}

	identity, err := s.repo.FindByPhone(ctx, phone)
	if err == nil {
		if identity.Role != role {
			s.record(ports.AuditFlowLegacy, identity, "", phone, role, ports.AuditOutcomeFailed)
			return nil, domain.ErrRoleMismatch
		}
		pair, err := s.issuePair(identity)
		if err != nil {
			return nil, err
		}
		s.record(ports.AuditFlowLegacy, identity, "", phone, role, ports.AuditOutcomeSucceeded)
		return &ports.AuthResult{User: identity, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
	}
	if !errors.Is(err, domain.ErrIdentityNotFound) {
		return nil, err
	}

	if acquired, guardErr := s.guard.Acquire(ctx, phone); guardErr != nil {
		s.logger.Warn().Err(guardErr).Str("phone", phone).Msg("legacy signup guard unavailable, proceeding")
	} else if !acquired {
		// Another request holds the lease and is likely mid-creation: look
		// the phone up again and log in against its identity if it landed.
		// Still absent means the competitor failed or hasn't committed yet;
		// fall through to the insert and let the unique index arbitrate.
		if existing, findErr := s.repo.FindByPhone(ctx, phone); findErr == nil {
			if existing.Role != role {
				s.record(ports.AuditFlowLegacy, existing, "", phone, role, ports.AuditOutcomeFailed)
				return nil, domain.ErrRoleMismatch
			}
			pair, issueErr := s.issuePair(existing)
			if issueErr != nil {
				return nil, issueErr
			}
			s.record(ports.AuditFlowLegacy, existing, "", phone, role, ports.AuditOutcomeSucceeded)
			return &ports.AuthResult{User: existing, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
		} else if !errors.Is(findErr, domain.ErrIdentityNotFound) {
			return nil, findErr
		}
	} else {
		defer func() {
			if releaseErr := s.guard.Release(context.WithoutCancel(ctx), phone); releaseErr != nil {
				s.logger.Warn().Err(releaseErr).Str("phone", phone).Msg("failed to release legacy signup guard")
			}
		}()
	}

	secret, err := randomSecret()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Insert(ctx, &domain.Identity{
		Email:        phone + "@" + s.legacyDomain,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         role,
		Origin:       domain.OriginLegacy,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// Lost a creation race on the unique phone/email index: the identity
		// exists now, so fall back to the login branch.
		if errors.Is(err, domain.ErrEmailExists) {
			if existing, findErr := s.repo.FindByPhone(ctx, phone); findErr == nil {
				if existing.Role != role {
					return nil, domain.ErrRoleMismatch
				}
				pair, issueErr := s.issuePair(existing)
				if issueErr != nil {
					return nil, issueErr
				}
				s.record(ports.AuditFlowLegacy, existing, "", phone, role, ports.AuditOutcomeSucceeded)
				return &ports.AuthResult{User: existing, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
			}
		}
		return nil, err
	}

	pair, err := s.issuePair(created)
	if err != nil {
		return nil, err
	}

	s.record(ports.AuditFlowLegacy, created, "", phone, role, ports.AuditOutcomeCreated)
	return &ports.AuthResult{User: created, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken, Created: true}, nil
}

// Refresh validates a refresh token, resolves its identity, and returns a
// new token pair. Tokens are stateless: the old refresh token stays valid
// until its natural expiry. A vanished identity fails the same way as a bad
// token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", domain.ErrInvalidRequest)
	}

	id, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	identity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	pair, err := s.issuePair(identity)
	if err != nil {
		return nil, err
	}

	s.record(ports.AuditFlowRefresh, identity, "", "", identity.Role, ports.AuditOutcomeSucceeded)
	return pair, nil
}

// Profile returns the identity for an already-authenticated caller.
func (s *AuthService) Profile(ctx context.Context, id string) (*domain.Identity, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile applies a partial update. Nil pointers leave fields
// untouched; empty strings clear the nullable fields and are ignored for the
// rest. Role is never updatable. An email change re-checks store-wide
// uniqueness excluding the caller.
func (s *AuthService) UpdateProfile(ctx context.Context, id string, input ports.UpdateProfileInput) (*domain.Identity, error) {
	identity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil && *input.FirstName != "" {
		identity.FirstName = *input.FirstName
	}
	if input.MiddleName != nil {
		identity.MiddleName = *input.MiddleName
	}
	if input.LastName != nil && *input.LastName != "" {
		identity.LastName = *input.LastName
	}
	if input.Phone != nil && *input.Phone != "" {
		identity.Phone = *input.Phone
	}
	if input.SchoolID != nil {
		identity.SchoolID = *input.SchoolID
	}
	if input.LicenseID != nil {
		identity.LicenseID = *input.LicenseID
	}
	if input.Sex != nil && *input.Sex != "" {
		identity.Sex = *input.Sex
	}
	if input.Email != nil && *input.Email != "" {
		if _, err := s.repo.FindByEmailExcludingID(ctx, *input.Email, id); err == nil {
			return nil, domain.ErrEmailExists
		} else if !errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, err
		}
		identity.Email = *input.Email
	}

	identity.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, identity)
}

func (s *AuthService) issuePair(identity *domain.Identity) (*ports.TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(identity.ID, identity.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(identity.ID)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) record(flow string, identity *domain.Identity, email, phone, role, outcome string) {
	event := ports.AuthEvent{
		Flow:    flow,
		Email:   email,
		Phone:   phone,
		Role:    role,
		Outcome: outcome,
		At:      time.Now().UTC(),
	}
	if identity != nil {
		event.IdentityID = identity.ID
	}
	s.audit.Record(event)
}

// randomSecret generates the placeholder password for legacy identities.
func randomSecret() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
