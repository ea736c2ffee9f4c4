package tenant

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/infrastructure/logger"
)

type scopedRow struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;not null"`
	Name     string
}

type sharedRow struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
}

func setupCallbackDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&scopedRow{}, &sharedRow{}))
	require.NoError(t, EnableAutoFilter(db))
	return db
}

func seedScopedRows(t *testing.T, db *gorm.DB, tenantA, tenantB uuid.UUID) {
	t.Helper()
	rows := []scopedRow{
		{ID: uuid.New(), TenantID: tenantA, Name: "a1"},
		{ID: uuid.New(), TenantID: tenantA, Name: "a2"},
		{ID: uuid.New(), TenantID: tenantB, Name: "b1"},
	}
	require.NoError(t, db.Create(&rows).Error)
}

func TestCallbackFiltersByContextTenant(t *testing.T) {
	db := setupCallbackDB(t)
	tenantA := uuid.New()
	tenantB := uuid.New()
	seedScopedRows(t, db, tenantA, tenantB)

	ctx := logger.WithTenantID(context.Background(), tenantA.String())

	var rows []scopedRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	assert.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, tenantA, r.TenantID)
	}
}

func TestCallbackSkipsWithoutContextTenant(t *testing.T) {
	db := setupCallbackDB(t)
	seedScopedRows(t, db, uuid.New(), uuid.New())

	var rows []scopedRow
	require.NoError(t, db.WithContext(context.Background()).Find(&rows).Error)
	assert.Len(t, rows, 3)
}

func TestCallbackKeepsExplicitTenantCondition(t *testing.T) {
	db := setupCallbackDB(t)
	tenantA := uuid.New()
	tenantB := uuid.New()
	seedScopedRows(t, db, tenantA, tenantB)

	// The explicit predicate wins; the callback must not stack a second
	// tenant condition from the context.
	ctx := logger.WithTenantID(context.Background(), tenantA.String())

	var rows []scopedRow
	require.NoError(t, db.WithContext(ctx).Where("tenant_id = ?", tenantB).Find(&rows).Error)
	assert.Len(t, rows, 1)
	assert.Equal(t, "b1", rows[0].Name)
}

func TestCallbackIgnoresTablesWithoutTenantColumn(t *testing.T) {
	db := setupCallbackDB(t)
	require.NoError(t, db.Create(&sharedRow{ID: uuid.New(), Name: "global"}).Error)

	ctx := logger.WithTenantID(context.Background(), uuid.NewString())

	var rows []sharedRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	assert.Len(t, rows, 1)
}

func TestCallbackRejectsMalformedTenantID(t *testing.T) {
	db := setupCallbackDB(t)
	seedScopedRows(t, db, uuid.New(), uuid.New())

	ctx := logger.WithTenantID(context.Background(), "not-a-uuid")

	var rows []scopedRow
	err := db.WithContext(ctx).Find(&rows).Error
	assert.ErrorIs(t, err, ErrInvalidTenantID)
}

func TestCallbackScopesUpdatesAndDeletes(t *testing.T) {
	db := setupCallbackDB(t)
	tenantA := uuid.New()
	tenantB := uuid.New()
	seedScopedRows(t, db, tenantA, tenantB)

	ctx := logger.WithTenantID(context.Background(), tenantA.String())

	res := db.WithContext(ctx).Model(&scopedRow{}).Where("name LIKE ?", "%1").Update("name", "renamed")
	require.NoError(t, res.Error)
	assert.Equal(t, int64(1), res.RowsAffected)

	res = db.WithContext(ctx).Where("1 = 1").Delete(&scopedRow{})
	require.NoError(t, res.Error)
	assert.Equal(t, int64(2), res.RowsAffected)

	var remaining []scopedRow
	require.NoError(t, db.Find(&remaining).Error)
	assert.Len(t, remaining, 1)
	assert.Equal(t, tenantB, remaining[0].TenantID)
}
