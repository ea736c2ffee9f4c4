package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/schoolhub/backend/internal/interfaces/http/dto"
	"github.com/schoolhub/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setScopedAccess simulates an authenticated school-scoped request
// without going through the JWT middleware.
func setScopedAccess(c *gin.Context, tenantID, userID uuid.UUID, role identity.Role) {
	access, err := identity.ResolveAccess(identity.Principal{
		UserID:   userID,
		TenantID: &tenantID,
		Role:     role,
	})
	if err != nil {
		panic(err)
	}
	c.Set(middleware.AccessContextKey, access)
}

// setPlatformAccess simulates an authenticated super-admin request
func setPlatformAccess(c *gin.Context, userID uuid.UUID) {
	access, err := identity.ResolveAccess(identity.Principal{
		UserID: userID,
		Role:   identity.RoleSuperAdmin,
	})
	if err != nil {
		panic(err)
	}
	c.Set(middleware.AccessContextKey, access)
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Success(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestBaseHandlerSuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.SuccessWithMeta(c, []string{"a", "b"}, 42, 2, 10)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(42), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
}

func TestBaseHandlerCreated(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Created(c, map[string]string{"id": "123"})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBaseHandlerNoContent(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.NoContent(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandlerScoped(t *testing.T) {
	h := &BaseHandler{}

	t.Run("tenant context passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		tenantID := uuid.New()
		setScopedAccess(c, tenantID, uuid.New(), identity.RoleSchoolAdmin)

		_, got, ok := h.scoped(c)
		require.True(t, ok)
		assert.Equal(t, tenantID, got)
	})

	t.Run("missing context is unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		_, _, ok := h.scoped(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("platform context is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		setPlatformAccess(c, uuid.New())

		_, _, ok := h.scoped(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestBaseHandlerHandleError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden},
		{"domain conflict", shared.NewDomainError("ALREADY_EXISTS", "duplicate"), http.StatusConflict},
		{"validation failure", shared.NewValidationError("from_date", "must be YYYY-MM-DD"), http.StatusBadRequest},
		{"unknown error is opaque 500", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.HandleError(c, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestBaseHandlerHandleErrorValidationDetails(t *testing.T) {
	h := &BaseHandler{}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	err := shared.NewValidationError("from_date", "must be YYYY-MM-DD").
		Add("to_date", "must be YYYY-MM-DD")
	h.HandleError(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "from_date", resp.Error.Details[0].Field)
	assert.Equal(t, "to_date", resp.Error.Details[1].Field)
}
