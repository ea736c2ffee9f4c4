package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/infrastructure/logger"
	"github.com/schoolhub/backend/internal/interfaces/http/dto"
)

// AccessContextKey is the gin context key the resolved access context
// is stored under.
const AccessContextKey = "access_context"

// AccessResolver turns validated JWT claims into an identity access
// context. Requests that passed JWTAuth on a skip path carry no claims
// and pass through untouched; guarded routes behind RequireAccess or a
// permission guard will still refuse them.
func AccessResolver() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.Next()
			return
		}

		userID, err := claims.GetUserUUID()
		if err != nil {
			abortAccess(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid token")
			return
		}
		tenantID, err := claims.GetTenantUUID()
		if err != nil {
			abortAccess(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid token")
			return
		}

		access, err := identity.ResolveAccess(identity.Principal{
			UserID:   userID,
			TenantID: tenantID,
			Role:     identity.Role(claims.Role),
		})
		if err != nil {
			abortAccess(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access denied")
			return
		}

		c.Set(AccessContextKey, access)

		// Enrich the request context so logs and the persistence
		// tenant callbacks see who is acting.
		ctx := logger.WithUserID(c.Request.Context(), access.Principal.UserID.String())
		if access.Kind == identity.AccessScoped {
			ctx = logger.WithTenantID(ctx, access.TenantID.String())
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetAccess retrieves the resolved access context, reporting whether
// one was set.
func GetAccess(c *gin.Context) (identity.AccessContext, bool) {
	if v, exists := c.Get(AccessContextKey); exists {
		if access, ok := v.(identity.AccessContext); ok {
			return access, true
		}
	}
	return identity.AccessContext{}, false
}

// RequireAccess rejects requests that carry no resolved access context
func RequireAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetAccess(c); !ok {
			abortAccess(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		c.Next()
	}
}

// RequirePlatform restricts a route group to platform super-admins
func RequirePlatform() gin.HandlerFunc {
	return func(c *gin.Context) {
		access, ok := GetAccess(c)
		if !ok {
			abortAccess(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if err := access.RequirePlatform(); err != nil {
			abortAccess(c, http.StatusForbidden, dto.ErrCodeForbidden, "Platform access required")
			return
		}
		c.Next()
	}
}

// RequirePermission restricts a route to roles carrying the permission
func RequirePermission(p identity.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		access, ok := GetAccess(c)
		if !ok {
			abortAccess(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if err := access.RequirePermission(p); err != nil {
			abortAccess(c, http.StatusForbidden, dto.ErrCodeForbidden, "Insufficient permissions")
			return
		}
		c.Next()
	}
}

// TenantGuard refuses scoped requests whose tenant is suspended or has
// an expired subscription. Tokens issued before the suspension stay
// technically valid, so the tenant state has to be re-checked on every
// request rather than only at login. Platform contexts pass through.
func TenantGuard(tenantRepo identity.TenantRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		access, ok := GetAccess(c)
		if !ok || access.IsPlatform() {
			c.Next()
			return
		}

		tenant, err := tenantRepo.FindByID(c.Request.Context(), access.TenantID)
		if err != nil {
			if logger != nil {
				logger.Error("Failed to load tenant for guard check",
					zap.String("tenant_id", access.TenantID.String()),
					zap.Error(err))
			}
			abortAccess(c, http.StatusForbidden, "TENANT_NOT_OPERATIONAL", "School account is unavailable")
			return
		}
		if !tenant.IsOperational() {
			abortAccess(c, http.StatusForbidden, "TENANT_NOT_OPERATIONAL", "School account is suspended or expired")
			return
		}
		c.Next()
	}
}

func abortAccess(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}
