package academic

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudent(t *testing.T) {
	tenantID := uuid.New()

	t.Run("valid student", func(t *testing.T) {
		student, err := NewStudent(tenantID, uuid.New(), uuid.New(), uuid.New(), uuid.New(), " ADM-0042 ", "Asha", "Okello")
		require.NoError(t, err)
		assert.Equal(t, "ADM-0042", student.AdmissionNo)
		assert.Equal(t, "Asha Okello", student.FullName())
		assert.Equal(t, StudentStatusActive, student.Status)
		assert.True(t, student.IsActive())
	})

	t.Run("empty admission number", func(t *testing.T) {
		_, err := NewStudent(tenantID, uuid.New(), uuid.New(), uuid.New(), uuid.New(), "  ", "Asha", "Okello")
		assert.Error(t, err)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := NewStudent(tenantID, uuid.New(), uuid.New(), uuid.New(), uuid.New(), "ADM-1", "Asha", "")
		assert.Error(t, err)
	})

	t.Run("missing references", func(t *testing.T) {
		_, err := NewStudent(tenantID, uuid.Nil, uuid.New(), uuid.New(), uuid.New(), "ADM-1", "Asha", "Okello")
		assert.Error(t, err)
	})
}

func TestStudentMoveToSection(t *testing.T) {
	student, err := NewStudent(uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(), "ADM-1", "Asha", "Okello")
	require.NoError(t, err)

	newClass := uuid.New()
	newSection := uuid.New()
	require.NoError(t, student.MoveToSection(newClass, newSection))
	assert.Equal(t, newClass, student.ClassID)
	assert.Equal(t, newSection, student.SectionID)

	require.NoError(t, student.ChangeStatus(StudentStatusWithdrawn))
	assert.Error(t, student.MoveToSection(uuid.New(), uuid.New()))
}

func TestStudentStatus(t *testing.T) {
	student, err := NewStudent(uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(), "ADM-1", "Asha", "Okello")
	require.NoError(t, err)

	require.NoError(t, student.ChangeStatus(StudentStatusGraduated))
	assert.False(t, student.IsActive())

	assert.Error(t, student.ChangeStatus(StudentStatus("expelled")))
	assert.Equal(t, StudentStatusGraduated, student.Status)
}

func TestGuardians(t *testing.T) {
	tenantID := uuid.New()

	t.Run("new guardian", func(t *testing.T) {
		guardian, err := NewGuardian(tenantID, "Mary", "Okello", "+256700100200")
		require.NoError(t, err)
		assert.Equal(t, "Mary", guardian.FirstName)
	})

	t.Run("phone required", func(t *testing.T) {
		_, err := NewGuardian(tenantID, "Mary", "Okello", " ")
		assert.Error(t, err)
	})

	t.Run("link requires relationship", func(t *testing.T) {
		_, err := NewStudentGuardian(tenantID, uuid.New(), uuid.New(), "")
		assert.Error(t, err)
	})

	t.Run("link defaults", func(t *testing.T) {
		link, err := NewStudentGuardian(tenantID, uuid.New(), uuid.New(), "mother")
		require.NoError(t, err)
		assert.False(t, link.EmergencyContact)
		assert.False(t, link.PickupPermitted)
	})
}
