package identity

import (
	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// Principal is the authenticated actor attached to a request. TenantID is
// nil for platform-level users.
type Principal struct {
	UserID   uuid.UUID
	TenantID *uuid.UUID
	Role     Role
}

// AccessKind distinguishes platform access from tenant-scoped access
type AccessKind int

const (
	// AccessPlatform is cross-tenant access held only by super-admins
	// with no tenant of their own.
	AccessPlatform AccessKind = iota
	// AccessScoped is access confined to a single tenant.
	AccessScoped
)

// AccessContext is the resolved authorization context for a request.
// Every operation checks it at the boundary, before any data access;
// tenant isolation is never left to incidental query filters alone.
type AccessContext struct {
	Kind      AccessKind
	TenantID  uuid.UUID // valid only when Kind == AccessScoped
	Principal Principal
}

// ResolveAccess derives the access context from a principal. A principal
// with no tenant must hold the super-admin role; anything else is a
// misconfigured account and is rejected outright.
func ResolveAccess(p Principal) (AccessContext, error) {
	if p.UserID == uuid.Nil {
		return AccessContext{}, shared.ErrUnauthorized
	}
	if !p.Role.IsValid() {
		return AccessContext{}, shared.ErrForbidden
	}

	if p.TenantID == nil {
		if p.Role != RoleSuperAdmin {
			return AccessContext{}, shared.ErrForbidden
		}
		return AccessContext{Kind: AccessPlatform, Principal: p}, nil
	}

	if p.Role.IsPlatform() {
		// A tenant-bound super-admin is contradictory.
		return AccessContext{}, shared.ErrForbidden
	}
	return AccessContext{Kind: AccessScoped, TenantID: *p.TenantID, Principal: p}, nil
}

// IsPlatform reports whether the context has platform-wide access
func (a AccessContext) IsPlatform() bool {
	return a.Kind == AccessPlatform
}

// RequirePlatform fails with ErrForbidden unless the context is
// platform-level. Used by tenant management, platform users, global
// settings and subscription operations.
func (a AccessContext) RequirePlatform() error {
	if !a.IsPlatform() {
		return shared.ErrForbidden
	}
	return nil
}

// RequireTenant returns the tenant the context is confined to, failing
// with ErrForbidden for platform contexts that did not pick a tenant.
func (a AccessContext) RequireTenant() (uuid.UUID, error) {
	if a.Kind != AccessScoped {
		return uuid.Nil, shared.ErrForbidden
	}
	return a.TenantID, nil
}

// RequirePermission fails with ErrForbidden unless the principal's role
// carries the permission.
func (a AccessContext) RequirePermission(p Permission) error {
	if !a.Principal.Role.Has(p) {
		return shared.ErrForbidden
	}
	return nil
}

// CanAccessTenant reports whether the context may touch rows of the
// given tenant. Platform contexts may touch any tenant; scoped contexts
// only their own. Callers surface a cross-tenant denial as ErrNotFound
// so record existence is never confirmed to the wrong tenant.
func (a AccessContext) CanAccessTenant(tenantID uuid.UUID) bool {
	if a.IsPlatform() {
		return true
	}
	return a.TenantID == tenantID
}
