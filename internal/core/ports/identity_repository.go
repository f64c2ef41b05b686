package ports

import (
	"context"

	"github.com/ecoride/auth-service/internal/core/domain"
)

// IdentityRepository defines the persistence contract for identities.
// Lookups return domain.ErrIdentityNotFound when no record matches. The
// store enforces uniqueness of email (and of phone, where set) with unique
// indexes; Insert and Update surface domain.ErrEmailExists on a duplicate
// key so the application-level pre-checks are a courtesy, not the guarantee.
type IdentityRepository interface {
	FindByEmailAndRole(ctx context.Context, email, role string) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	FindByEmailExcludingID(ctx context.Context, email, id string) (*domain.Identity, error)
	Insert(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	Update(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
}
