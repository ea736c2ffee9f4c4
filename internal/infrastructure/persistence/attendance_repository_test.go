package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/academic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAttendanceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&academic.AttendanceRecord{})
	require.NoError(t, err)

	return db
}

func newAttendanceRecord(t *testing.T, tenantID, studentID, sectionID uuid.UUID, date time.Time, status academic.AttendanceStatus) *academic.AttendanceRecord {
	t.Helper()

	record, err := academic.NewAttendanceRecord(tenantID, studentID, sectionID, uuid.New(), date, status, "")
	require.NoError(t, err)
	return record
}

func TestGormAttendanceRepository_Mark(t *testing.T) {
	t.Run("creates a record for a new day", func(t *testing.T) {
		db := setupAttendanceTestDB(t)
		repo := NewGormAttendanceRepository(db)
		ctx := context.Background()

		tenantID := uuid.New()
		studentID := uuid.New()
		day := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)

		record := newAttendanceRecord(t, tenantID, studentID, uuid.New(), day, academic.AttendancePresent)
		require.NoError(t, repo.Mark(ctx, record))

		found, err := repo.FindByStudentAndDate(ctx, tenantID, studentID, day)
		require.NoError(t, err)
		assert.Equal(t, academic.AttendancePresent, found.Status)
		assert.Equal(t, academic.NormalizeDate(day), found.Date.UTC())
	})

	t.Run("second mark for the same day overwrites the first", func(t *testing.T) {
		db := setupAttendanceTestDB(t)
		repo := NewGormAttendanceRepository(db)
		ctx := context.Background()

		tenantID := uuid.New()
		studentID := uuid.New()
		sectionID := uuid.New()
		day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

		require.NoError(t, repo.Mark(ctx, newAttendanceRecord(t, tenantID, studentID, sectionID, day, academic.AttendanceAbsent)))
		require.NoError(t, repo.Mark(ctx, newAttendanceRecord(t, tenantID, studentID, sectionID, day, academic.AttendanceLate)))

		found, err := repo.FindByStudentAndDate(ctx, tenantID, studentID, day)
		require.NoError(t, err)
		assert.Equal(t, academic.AttendanceLate, found.Status)

		var count int64
		require.NoError(t, db.Model(&academic.AttendanceRecord{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormAttendanceRepository_Summary(t *testing.T) {
	t.Run("aggregates one row per status", func(t *testing.T) {
		db := setupAttendanceTestDB(t)
		repo := NewGormAttendanceRepository(db)
		ctx := context.Background()

		tenantID := uuid.New()
		studentID := uuid.New()
		sectionID := uuid.New()
		start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

		marks := []academic.AttendanceStatus{
			academic.AttendancePresent,
			academic.AttendancePresent,
			academic.AttendanceLate,
			academic.AttendanceAbsent,
			academic.AttendanceHoliday,
		}
		for i, status := range marks {
			day := start.AddDate(0, 0, i)
			require.NoError(t, repo.Mark(ctx, newAttendanceRecord(t, tenantID, studentID, sectionID, day, status)))
		}

		summary, err := repo.Summary(ctx, tenantID, studentID, start, start.AddDate(0, 0, 6))

		require.NoError(t, err)
		assert.Equal(t, 5, summary.TotalDays)
		// Late counts as present for the percentage roll-up.
		assert.Equal(t, 3, summary.PresentDays)
		assert.Equal(t, 1, summary.LateDays)
		assert.Equal(t, 1, summary.AbsentDays)
		assert.Equal(t, 1, summary.HolidayCount)
		assert.InDelta(t, 75.0, summary.Percentage(), 0.01)
	})

	t.Run("empty range yields an empty summary", func(t *testing.T) {
		db := setupAttendanceTestDB(t)
		repo := NewGormAttendanceRepository(db)

		summary, err := repo.Summary(context.Background(), uuid.New(), uuid.New(),
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))

		require.NoError(t, err)
		assert.Zero(t, summary.TotalDays)
		assert.Zero(t, summary.Percentage())
	})
}

func TestGormAttendanceRepository_FindBySectionAndDate(t *testing.T) {
	t.Run("scopes to section and day", func(t *testing.T) {
		db := setupAttendanceTestDB(t)
		repo := NewGormAttendanceRepository(db)
		ctx := context.Background()

		tenantID := uuid.New()
		sectionID := uuid.New()
		day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

		require.NoError(t, repo.Mark(ctx, newAttendanceRecord(t, tenantID, uuid.New(), sectionID, day, academic.AttendancePresent)))
		require.NoError(t, repo.Mark(ctx, newAttendanceRecord(t, tenantID, uuid.New(), sectionID, day, academic.AttendanceAbsent)))
		// Different section and different day stay out of the result.
		require.NoError(t, repo.Mark(ctx, newAttendanceRecord(t, tenantID, uuid.New(), uuid.New(), day, academic.AttendancePresent)))
		require.NoError(t, repo.Mark(ctx, newAttendanceRecord(t, tenantID, uuid.New(), sectionID, day.AddDate(0, 0, 1), academic.AttendancePresent)))

		records, err := repo.FindBySectionAndDate(ctx, tenantID, sectionID, day)

		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}
