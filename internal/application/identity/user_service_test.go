package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
)

func TestUserServiceCreate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates tenant user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, zap.NewNop())

		userRepo.On("FindByUsername", ctx, "clerk").Return(nil, shared.ErrNotFound)
		userRepo.On("FindByEmail", ctx, "clerk@school.test").Return(nil, shared.ErrNotFound)
		userRepo.On("Save", ctx, mock.Anything).Return(nil)

		dto, err := svc.Create(ctx, tenantID, CreateUserInput{
			Username: "clerk",
			Email:    "clerk@school.test",
			Password: "long-enough-pass",
			Role:     "accountant",
		})
		require.NoError(t, err)
		assert.Equal(t, "accountant", dto.Role)
		require.NotNil(t, dto.TenantID)
		assert.Equal(t, tenantID, *dto.TenantID)
	})

	t.Run("duplicate username", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, zap.NewNop())

		existing, err := identity.NewTenantUser(tenantID, "clerk", "other@school.test", identity.RoleStaff)
		require.NoError(t, err)
		userRepo.On("FindByUsername", ctx, "clerk").Return(existing, nil)

		_, err = svc.Create(ctx, tenantID, CreateUserInput{
			Username: "clerk", Email: "clerk@school.test", Password: "long-enough-pass", Role: "staff",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "USERNAME_EXISTS", domainErr.Code)
	})

	t.Run("super-admin role rejected for tenant users", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, zap.NewNop())

		userRepo.On("FindByUsername", ctx, "boss").Return(nil, shared.ErrNotFound)
		userRepo.On("FindByEmail", ctx, "boss@school.test").Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, tenantID, CreateUserInput{
			Username: "boss", Email: "boss@school.test", Password: "long-enough-pass", Role: "super-admin",
		})
		assert.Error(t, err)
		userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("short password rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, zap.NewNop())

		userRepo.On("FindByUsername", ctx, "clerk").Return(nil, shared.ErrNotFound)
		userRepo.On("FindByEmail", ctx, "clerk@school.test").Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, tenantID, CreateUserInput{
			Username: "clerk", Email: "clerk@school.test", Password: "short", Role: "staff",
		})
		assert.Error(t, err)
	})
}

func TestUserServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	setup := func(t *testing.T) (*MockUserRepository, *UserService, *identity.User) {
		t.Helper()
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, zap.NewNop())
		user, err := identity.NewTenantUser(tenantID, "jdoe", "jdoe@school.test", identity.RoleTeacher)
		require.NoError(t, err)
		require.NoError(t, user.SetPassword("long-enough-pass"))
		userRepo.On("FindByIDForTenant", ctx, tenantID, user.ID).Return(user, nil)
		return userRepo, svc, user
	}

	t.Run("soft delete then restore", func(t *testing.T) {
		userRepo, svc, user := setup(t)
		userRepo.On("Save", ctx, mock.Anything).Return(nil)

		require.NoError(t, svc.SoftDelete(ctx, tenantID, user.ID))
		assert.Equal(t, identity.LifecycleSoftDeleted, user.Lifecycle)

		dto, err := svc.Restore(ctx, tenantID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, string(identity.LifecycleActive), dto.Lifecycle)
	})

	t.Run("purge requires prior soft delete", func(t *testing.T) {
		userRepo, svc, user := setup(t)

		err := svc.Purge(ctx, tenantID, user.ID)
		assert.Error(t, err)
		userRepo.AssertNotCalled(t, "Purge", mock.Anything, mock.Anything)
	})

	t.Run("purge after soft delete removes the row", func(t *testing.T) {
		userRepo, svc, user := setup(t)
		userRepo.On("Save", ctx, mock.Anything).Return(nil)
		userRepo.On("Purge", ctx, user.ID).Return(nil)

		require.NoError(t, svc.SoftDelete(ctx, tenantID, user.ID))
		require.NoError(t, svc.Purge(ctx, tenantID, user.ID))
		userRepo.AssertCalled(t, "Purge", ctx, user.ID)
	})

	t.Run("cross-tenant lookup reads as not found", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, zap.NewNop())

		otherTenant := uuid.New()
		id := uuid.New()
		userRepo.On("FindByIDForTenant", ctx, otherTenant, id).Return(nil, shared.ErrNotFound)

		_, err := svc.GetByID(ctx, otherTenant, id)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "USER_NOT_FOUND", domainErr.Code)
	})
}

func TestUserServiceChangePassword(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo, zap.NewNop())

	user, err := identity.NewTenantUser(tenantID, "jdoe", "jdoe@school.test", identity.RoleTeacher)
	require.NoError(t, err)
	require.NoError(t, user.SetPassword("old-password-1"))

	userRepo.On("FindByIDForTenant", ctx, tenantID, user.ID).Return(user, nil)
	userRepo.On("Save", ctx, mock.Anything).Return(nil)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, tenantID, user.ID, "not-the-old-one", "new-password-1")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("correct current password", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, tenantID, user.ID, "old-password-1", "new-password-1"))
		assert.True(t, user.CheckPassword("new-password-1"))
	})
}
