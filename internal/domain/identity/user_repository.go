package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// UserRepository defines persistence operations for users. Tenant-scoped
// lookups never return another tenant's rows; platform lookups (nil
// tenant) are reserved for super-admin flows.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, error)
	FindPlatformUsers(ctx context.Context, filter shared.Filter) ([]User, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountActiveForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, user *User) error
	// Purge permanently deletes a user row. Only valid after the domain
	// transition to LifecyclePurged.
	Purge(ctx context.Context, id uuid.UUID) error
}
