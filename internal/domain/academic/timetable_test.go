package academic

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimetableEntry(t *testing.T) {
	tenantID := uuid.New()
	sectionID := uuid.New()
	yearID := uuid.New()

	t.Run("valid entry", func(t *testing.T) {
		entry, err := NewTimetableEntry(tenantID, sectionID, yearID, Monday, 1, "Mathematics", "08:00", "08:45")
		require.NoError(t, err)
		assert.Equal(t, "Mathematics", entry.Subject)
		assert.Nil(t, entry.TeacherID)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		cases := []struct {
			name    string
			weekday Weekday
			slot    int
			subject string
			start   string
			end     string
		}{
			{"weekday out of range", Weekday(8), 1, "Math", "08:00", "08:45"},
			{"zero slot", Monday, 0, "Math", "08:00", "08:45"},
			{"blank subject", Monday, 1, "  ", "08:00", "08:45"},
			{"bad clock format", Monday, 1, "Math", "8am", "08:45"},
			{"end before start", Monday, 1, "Math", "09:00", "08:45"},
			{"zero length", Monday, 1, "Math", "08:00", "08:00"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewTimetableEntry(tenantID, sectionID, yearID, tc.weekday, tc.slot, tc.subject, tc.start, tc.end)
				assert.Error(t, err)
			})
		}
	})
}

func TestTimetableTeacherAssignment(t *testing.T) {
	entry, err := NewTimetableEntry(uuid.New(), uuid.New(), uuid.New(), Tuesday, 3, "Physics", "10:00", "10:45")
	require.NoError(t, err)

	teacherID := uuid.New()
	require.NoError(t, entry.AssignTeacher(teacherID))
	require.NotNil(t, entry.TeacherID)
	assert.Equal(t, teacherID, *entry.TeacherID)

	assert.Error(t, entry.AssignTeacher(uuid.Nil))

	entry.ClearTeacher()
	assert.Nil(t, entry.TeacherID)
}

func TestTimetableOverlapsTeacher(t *testing.T) {
	tenantID := uuid.New()
	yearID := uuid.New()
	teacherID := uuid.New()

	mk := func(sectionID uuid.UUID, day Weekday, start, end string) *TimetableEntry {
		entry, err := NewTimetableEntry(tenantID, sectionID, yearID, day, 1, "Chemistry", start, end)
		require.NoError(t, err)
		require.NoError(t, entry.AssignTeacher(teacherID))
		return entry
	}

	t.Run("same teacher overlapping slots", func(t *testing.T) {
		a := mk(uuid.New(), Monday, "08:00", "09:00")
		b := mk(uuid.New(), Monday, "08:30", "09:15")
		assert.True(t, a.OverlapsTeacher(b))
		assert.True(t, b.OverlapsTeacher(a))
	})

	t.Run("back to back does not overlap", func(t *testing.T) {
		a := mk(uuid.New(), Monday, "08:00", "09:00")
		b := mk(uuid.New(), Monday, "09:00", "09:45")
		assert.False(t, a.OverlapsTeacher(b))
	})

	t.Run("different days", func(t *testing.T) {
		a := mk(uuid.New(), Monday, "08:00", "09:00")
		b := mk(uuid.New(), Friday, "08:00", "09:00")
		assert.False(t, a.OverlapsTeacher(b))
	})

	t.Run("different teachers", func(t *testing.T) {
		a := mk(uuid.New(), Monday, "08:00", "09:00")
		b := mk(uuid.New(), Monday, "08:00", "09:00")
		require.NoError(t, b.AssignTeacher(uuid.New()))
		assert.False(t, a.OverlapsTeacher(b))
	})

	t.Run("unassigned never overlaps", func(t *testing.T) {
		a := mk(uuid.New(), Monday, "08:00", "09:00")
		b := mk(uuid.New(), Monday, "08:00", "09:00")
		b.ClearTeacher()
		assert.False(t, a.OverlapsTeacher(b))
	})
}
