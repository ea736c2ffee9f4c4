package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// TenantRepository defines persistence operations for tenants. Tenants
// are platform-level entities: no tenant predicate applies to them.
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*Tenant, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Tenant, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Save(ctx context.Context, tenant *Tenant) error
	// SoftDelete removes the tenant from circulation. Callers must have
	// verified the tenant owns no users.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
