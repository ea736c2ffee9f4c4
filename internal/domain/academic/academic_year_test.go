package academic

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/backend/internal/domain/shared"
)

func TestNewAcademicYear(t *testing.T) {
	tenantID := uuid.New()
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("valid year", func(t *testing.T) {
		year, err := NewAcademicYear(tenantID, "2026-27", start, end)
		require.NoError(t, err)
		assert.Equal(t, "2026-27", year.Name)
		assert.Equal(t, AcademicYearStatusUpcoming, year.Status)
		assert.False(t, year.IsCurrent)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewAcademicYear(tenantID, "  ", start, end)
		assert.Error(t, err)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := NewAcademicYear(tenantID, "2026-27", end, start)
		assert.Error(t, err)
	})

	t.Run("end equal to start", func(t *testing.T) {
		_, err := NewAcademicYear(tenantID, "2026-27", start, start)
		assert.Error(t, err)
	})
}

func TestAcademicYearLifecycle(t *testing.T) {
	tenantID := uuid.New()
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("mark current activates", func(t *testing.T) {
		year, err := NewAcademicYear(tenantID, "2026-27", start, end)
		require.NoError(t, err)

		year.MarkCurrent()
		assert.True(t, year.IsCurrent)
		assert.Equal(t, AcademicYearStatusActive, year.Status)
	})

	t.Run("cannot close the current year", func(t *testing.T) {
		year, err := NewAcademicYear(tenantID, "2026-27", start, end)
		require.NoError(t, err)
		year.MarkCurrent()

		err = year.Close()
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.Equal(t, AcademicYearStatusActive, year.Status)
	})

	t.Run("close a non-current year", func(t *testing.T) {
		year, err := NewAcademicYear(tenantID, "2025-26", start.AddDate(-1, 0, 0), end.AddDate(-1, 0, 0))
		require.NoError(t, err)

		require.NoError(t, year.Close())
		assert.Equal(t, AcademicYearStatusClosed, year.Status)
	})
}

func TestAcademicYearContains(t *testing.T) {
	year, err := NewAcademicYear(uuid.New(), "2026-27",
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, year.Contains(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, year.Contains(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, year.Contains(time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, year.Contains(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, year.Contains(time.Date(2027, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestSectionCapacity(t *testing.T) {
	tenantID := uuid.New()
	classID := uuid.New()
	yearID := uuid.New()

	section, err := NewSection(tenantID, classID, yearID, "A", 30)
	require.NoError(t, err)

	t.Run("available seats", func(t *testing.T) {
		assert.Equal(t, int64(30), section.AvailableSeats(0))
		assert.Equal(t, int64(5), section.AvailableSeats(25))
		assert.Equal(t, int64(0), section.AvailableSeats(30))
	})

	t.Run("overenrollment floors at zero", func(t *testing.T) {
		assert.Equal(t, int64(0), section.AvailableSeats(35))
	})

	t.Run("has seat", func(t *testing.T) {
		assert.True(t, section.HasSeat(29))
		assert.False(t, section.HasSeat(30))
		assert.False(t, section.HasSeat(31))
	})

	t.Run("resize", func(t *testing.T) {
		require.NoError(t, section.Resize(40))
		assert.Equal(t, 40, section.Capacity)
		assert.Error(t, section.Resize(0))
		assert.Error(t, section.Resize(-5))
	})
}
