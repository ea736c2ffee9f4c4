package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	identityapp "github.com/schoolhub/backend/internal/application/identity"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
)

type mockUserRepository struct {
	users map[uuid.UUID]*identity.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uuid.UUID]*identity.User)}
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (m *mockUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	if u, ok := m.users[id]; ok && u.TenantID != nil && *u.TenantID == tenantID {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	var result []identity.User
	for _, u := range m.users {
		if u.TenantID != nil && *u.TenantID == tenantID {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepository) FindPlatformUsers(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	var result []identity.User
	for _, u := range m.users {
		if u.TenantID == nil {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	for _, u := range m.users {
		if u.TenantID != nil && *u.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (m *mockUserRepository) CountActiveForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	for _, u := range m.users {
		if u.TenantID != nil && *u.TenantID == tenantID && u.CanLogin() {
			count++
		}
	}
	return count, nil
}

func (m *mockUserRepository) Save(ctx context.Context, user *identity.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) Purge(ctx context.Context, id uuid.UUID) error {
	delete(m.users, id)
	return nil
}

func setupUserTestHandler() (*UserHandler, *mockUserRepository) {
	repo := newMockUserRepository()
	service := identityapp.NewUserService(repo, zap.NewNop())
	return NewUserHandler(service, nil), repo
}

func seedTenantUser(t *testing.T, repo *mockUserRepository, tenantID uuid.UUID, username string) *identity.User {
	t.Helper()
	user, err := identity.NewTenantUser(tenantID, username, username+"@school.test", identity.RoleTeacher)
	require.NoError(t, err)
	repo.users[user.ID] = user
	return user
}

func purgeRequest(handler *UserHandler, tenantID uuid.UUID, userID string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/identity/users/"+userID+"/purge", nil)
	c.Params = gin.Params{{Key: "id", Value: userID}}
	setScopedAccess(c, tenantID, uuid.New(), identity.RoleSchoolAdmin)

	handler.Purge(c)
	c.Writer.WriteHeaderNow()
	return w
}

func TestUserHandler_Purge_RemovesSoftDeletedUser(t *testing.T) {
	handler, repo := setupUserTestHandler()
	tenantID := uuid.New()
	user := seedTenantUser(t, repo, tenantID, "retired.teacher")
	require.NoError(t, user.SoftDelete())

	w := purgeRequest(handler, tenantID, user.ID.String())

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotContains(t, repo.users, user.ID)
}

func TestUserHandler_Purge_ActiveUserRejected(t *testing.T) {
	handler, repo := setupUserTestHandler()
	tenantID := uuid.New()
	user := seedTenantUser(t, repo, tenantID, "active.teacher")

	w := purgeRequest(handler, tenantID, user.ID.String())

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, repo.users, user.ID)
}

func TestUserHandler_Purge_WrongTenant(t *testing.T) {
	handler, repo := setupUserTestHandler()
	user := seedTenantUser(t, repo, uuid.New(), "other.school")
	require.NoError(t, user.SoftDelete())

	w := purgeRequest(handler, uuid.New(), user.ID.String())

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, repo.users, user.ID)
}
