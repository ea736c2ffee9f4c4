package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/schoolhub/backend/internal/infrastructure/auth"
	"github.com/schoolhub/backend/internal/infrastructure/config"
)

func newAuthTestService(userRepo *MockUserRepository, tenantRepo *MockTenantRepository) *AuthService {
	jwtSvc := auth.NewJWTService(config.JWTConfig{
		Secret:                 "auth-service-test-secret-0123456789",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "schoolhub-test",
		MaxRefreshCount:        5,
	})
	return NewAuthService(userRepo, tenantRepo, jwtSvc, auth.NewInMemoryTokenBlacklist(), zap.NewNop())
}

func newLoginUser(t *testing.T, tenantID uuid.UUID, password string) *identity.User {
	t.Helper()
	user, err := identity.NewTenantUser(tenantID, "jdoe", "jdoe@school.test", identity.RoleTeacher)
	require.NoError(t, err)
	require.NoError(t, user.SetPassword(password))
	return user
}

func newOperationalTenant(t *testing.T) *identity.Tenant {
	t.Helper()
	tenant, err := identity.NewTenant("green-hills", "Green Hills Academy")
	require.NoError(t, err)
	require.NoError(t, tenant.Activate())
	return tenant
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tenantRepo := new(MockTenantRepository)
		svc := newAuthTestService(userRepo, tenantRepo)

		tenant := newOperationalTenant(t)
		user := newLoginUser(t, tenant.ID, "correct-horse")

		userRepo.On("FindByUsername", ctx, "jdoe").Return(user, nil)
		tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
		userRepo.On("Save", ctx, mock.Anything).Return(nil)

		result, err := svc.Login(ctx, LoginInput{Username: "jdoe", Password: "correct-horse"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Tokens.AccessToken)
		assert.Equal(t, "jdoe", result.User.Username)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tenantRepo := new(MockTenantRepository)
		svc := newAuthTestService(userRepo, tenantRepo)

		user := newLoginUser(t, uuid.New(), "correct-horse")
		userRepo.On("FindByUsername", ctx, "jdoe").Return(user, nil)

		_, err := svc.Login(ctx, LoginInput{Username: "jdoe", Password: "wrong"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("unknown username yields the same error", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tenantRepo := new(MockTenantRepository)
		svc := newAuthTestService(userRepo, tenantRepo)

		userRepo.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(ctx, LoginInput{Username: "ghost", Password: "anything"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("soft-deleted user cannot login", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tenantRepo := new(MockTenantRepository)
		svc := newAuthTestService(userRepo, tenantRepo)

		user := newLoginUser(t, uuid.New(), "correct-horse")
		require.NoError(t, user.SoftDelete())
		userRepo.On("FindByUsername", ctx, "jdoe").Return(user, nil)

		_, err := svc.Login(ctx, LoginInput{Username: "jdoe", Password: "correct-horse"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_INACTIVE", domainErr.Code)
	})

	t.Run("suspended tenant blocks login", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tenantRepo := new(MockTenantRepository)
		svc := newAuthTestService(userRepo, tenantRepo)

		tenant := newOperationalTenant(t)
		require.NoError(t, tenant.Suspend())
		user := newLoginUser(t, tenant.ID, "correct-horse")

		userRepo.On("FindByUsername", ctx, "jdoe").Return(user, nil)
		tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

		_, err := svc.Login(ctx, LoginInput{Username: "jdoe", Password: "correct-horse"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TENANT_NOT_OPERATIONAL", domainErr.Code)
	})

	t.Run("platform user skips tenant check", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tenantRepo := new(MockTenantRepository)
		svc := newAuthTestService(userRepo, tenantRepo)

		root, err := identity.NewPlatformUser("root", "root@platform.test")
		require.NoError(t, err)
		require.NoError(t, root.SetPassword("platform-pass"))

		userRepo.On("FindByUsername", ctx, "root").Return(root, nil)
		userRepo.On("Save", ctx, mock.Anything).Return(nil)

		result, err := svc.Login(ctx, LoginInput{Username: "root", Password: "platform-pass"})
		require.NoError(t, err)
		assert.Nil(t, result.User.TenantID)
		tenantRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestAuthServiceRefreshAndLogout(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	tenantRepo := new(MockTenantRepository)
	svc := newAuthTestService(userRepo, tenantRepo)

	tenant := newOperationalTenant(t)
	user := newLoginUser(t, tenant.ID, "correct-horse")

	userRepo.On("FindByUsername", ctx, "jdoe").Return(user, nil)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	userRepo.On("Save", ctx, mock.Anything).Return(nil)

	result, err := svc.Login(ctx, LoginInput{Username: "jdoe", Password: "correct-horse"})
	require.NoError(t, err)

	t.Run("refresh issues new pair", func(t *testing.T) {
		pair, err := svc.Refresh(ctx, result.Tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEqual(t, result.Tokens.RefreshToken, pair.RefreshToken)
	})

	t.Run("logout revokes the refresh token", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx, result.Tokens.AccessToken, result.Tokens.RefreshToken))

		_, err := svc.Refresh(ctx, result.Tokens.RefreshToken)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_REVOKED", domainErr.Code)
	})

	t.Run("revoke all sessions kills later tokens", func(t *testing.T) {
		fresh, err := svc.Login(ctx, LoginInput{Username: "jdoe", Password: "correct-horse"})
		require.NoError(t, err)

		require.NoError(t, svc.RevokeAllSessions(ctx, user.ID.String()))

		_, err = svc.Refresh(ctx, fresh.Tokens.RefreshToken)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_REVOKED", domainErr.Code)
	})
}
