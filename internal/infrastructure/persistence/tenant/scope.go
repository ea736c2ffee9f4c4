// Package tenant provides defense-in-depth school scoping for GORM.
//
// Repositories always compose the tenant predicate explicitly; the
// callbacks registered here are a second fence, re-adding
// WHERE tenant_id = ? from the request context on any query that
// reached the database without one.
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvalidTenantID is returned when the context carries a tenant ID
// that is not a UUID.
var ErrInvalidTenantID = errors.New("invalid tenant id in context")

// Scope applies school filtering to a GORM query
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}
