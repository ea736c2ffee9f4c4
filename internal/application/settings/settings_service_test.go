package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/settings"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// MockRepository is a mock implementation of settings.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Find(ctx context.Context, tenantID *uuid.UUID, section settings.Section) (*settings.Setting, error) {
	args := m.Called(ctx, tenantID, section)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.Setting), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context, tenantID *uuid.UUID) ([]settings.Setting, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]settings.Setting), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, tenantID *uuid.UUID, section settings.Section, mutate func(*settings.Setting) error) (*settings.Setting, error) {
	args := m.Called(ctx, tenantID, section, mutate)
	if rf, ok := args.Get(0).(func(context.Context, *uuid.UUID, settings.Section, func(*settings.Setting) error) (*settings.Setting, error)); ok {
		return rf(ctx, tenantID, section, mutate)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.Setting), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, tenantID *uuid.UUID, section settings.Section) error {
	args := m.Called(ctx, tenantID, section)
	return args.Error(0)
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestService_Get_UnwrittenSection(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	repo.On("Find", mock.Anything, (*uuid.UUID)(nil), settings.SectionGeneral).Return(nil, shared.ErrNotFound)

	dto, err := service.Get(context.Background(), nil, "general")

	require.NoError(t, err)
	assert.Equal(t, "general", dto.Section)
	assert.Empty(t, dto.Payload)
}

func TestService_Get_UnknownSection(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	_, err := service.Get(context.Background(), nil, "billing")

	assertDomainCode(t, err, "INVALID_SECTION")
	repo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Replace(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	repo.On("Update", mock.Anything, &tenantID, settings.SectionFeatures, mock.Anything).
		Return(func(ctx context.Context, tid *uuid.UUID, sec settings.Section, mutate func(*settings.Setting) error) (*settings.Setting, error) {
			doc, err := settings.NewSetting(tid, sec, map[string]interface{}{"fees": true})
			if err != nil {
				return nil, err
			}
			if err := mutate(doc); err != nil {
				return nil, err
			}
			return doc, nil
		})

	dto, err := service.Replace(context.Background(), &tenantID, "features", map[string]interface{}{
		"attendance": true,
	})

	require.NoError(t, err)
	assert.Equal(t, true, dto.Payload["attendance"])
	_, hasFees := dto.Payload["fees"]
	assert.False(t, hasFees)
}

func TestService_Patch_KeepsOtherKeys(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	repo.On("Update", mock.Anything, (*uuid.UUID)(nil), settings.SectionSecurity, mock.Anything).
		Return(func(ctx context.Context, tid *uuid.UUID, sec settings.Section, mutate func(*settings.Setting) error) (*settings.Setting, error) {
			doc, err := settings.NewSetting(tid, sec, map[string]interface{}{
				"password_min_length": float64(10),
				"mfa_required":        false,
			})
			if err != nil {
				return nil, err
			}
			if err := mutate(doc); err != nil {
				return nil, err
			}
			return doc, nil
		})

	dto, err := service.Patch(context.Background(), nil, "security", map[string]interface{}{
		"mfa_required": true,
	})

	require.NoError(t, err)
	assert.Equal(t, true, dto.Payload["mfa_required"])
	assert.Equal(t, float64(10), dto.Payload["password_min_length"])
}
