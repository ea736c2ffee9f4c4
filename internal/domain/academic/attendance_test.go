package academic

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttendanceRecord(t *testing.T) {
	tenantID := uuid.New()
	studentID := uuid.New()
	sectionID := uuid.New()
	markedBy := uuid.New()

	t.Run("valid record", func(t *testing.T) {
		when := time.Date(2026, 9, 1, 14, 35, 12, 0, time.Local)
		record, err := NewAttendanceRecord(tenantID, studentID, sectionID, markedBy, when, AttendancePresent, "")
		require.NoError(t, err)
		assert.Equal(t, AttendancePresent, record.Status)
		assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), record.Date)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := NewAttendanceRecord(tenantID, studentID, sectionID, markedBy, time.Now(), AttendanceStatus("sleeping"), "")
		assert.Error(t, err)
	})

	t.Run("missing marker", func(t *testing.T) {
		_, err := NewAttendanceRecord(tenantID, studentID, sectionID, uuid.Nil, time.Now(), AttendancePresent, "")
		assert.Error(t, err)
	})
}

func TestAttendanceStatusCountsAsPresent(t *testing.T) {
	tests := []struct {
		status  AttendanceStatus
		present bool
	}{
		{AttendancePresent, true},
		{AttendanceLate, true},
		{AttendanceAbsent, false},
		{AttendanceHalfDay, false},
		{AttendanceLeave, false},
		{AttendanceHoliday, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.present, tt.status.CountsAsPresent())
		})
	}
}

func TestAttendanceAmend(t *testing.T) {
	record, err := NewAttendanceRecord(uuid.New(), uuid.New(), uuid.New(), uuid.New(), time.Now(), AttendanceAbsent, "")
	require.NoError(t, err)

	corrector := uuid.New()
	require.NoError(t, record.Amend(AttendanceLate, "arrived 09:40", corrector))
	assert.Equal(t, AttendanceLate, record.Status)
	assert.Equal(t, corrector, record.MarkedBy)
	assert.Equal(t, "arrived 09:40", record.Remarks)

	assert.Error(t, record.Amend(AttendanceStatus("bogus"), "", corrector))
}

func TestAttendanceSummaryPercentage(t *testing.T) {
	t.Run("holidays excluded from denominator", func(t *testing.T) {
		s := AttendanceSummary{TotalDays: 22, PresentDays: 18, AbsentDays: 2, HolidayCount: 2}
		assert.InDelta(t, 90.0, s.Percentage(), 0.001)
	})

	t.Run("no countable days", func(t *testing.T) {
		s := AttendanceSummary{TotalDays: 3, HolidayCount: 3}
		assert.Zero(t, s.Percentage())
	})

	t.Run("empty summary", func(t *testing.T) {
		assert.Zero(t, AttendanceSummary{}.Percentage())
	})
}
