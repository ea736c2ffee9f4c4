package academic

import (
	"strings"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// SchoolClass is a grade level within a school (e.g. "Class 1"). The
// class teacher reference is optional and survives teacher deletion as
// null rather than blocking it.
type SchoolClass struct {
	shared.TenantAggregateRoot
	Name           string     `gorm:"type:varchar(100);not null"`
	NumericLevel   int        `gorm:"not null;default:0"`
	ClassTeacherID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (SchoolClass) TableName() string {
	return "school_classes"
}

// NewSchoolClass creates a class for a tenant
func NewSchoolClass(tenantID uuid.UUID, name string, level int) (*SchoolClass, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Class name cannot be empty")
	}
	if level < 0 {
		return nil, shared.NewDomainError("INVALID_LEVEL", "Class level cannot be negative")
	}
	return &SchoolClass{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		NumericLevel:        level,
	}, nil
}

// AssignClassTeacher sets the class teacher
func (c *SchoolClass) AssignClassTeacher(teacherID uuid.UUID) {
	c.ClassTeacherID = &teacherID
	c.Touch()
	c.IncrementVersion()
}

// ClearClassTeacher removes the class teacher reference
func (c *SchoolClass) ClearClassTeacher() {
	c.ClassTeacherID = nil
	c.Touch()
	c.IncrementVersion()
}

// Section is a named stream of a class in one academic year. Available
// seats are computed from the active enrollment count, never stored.
type Section struct {
	shared.TenantAggregateRoot
	ClassID        uuid.UUID `gorm:"type:uuid;not null;index"`
	AcademicYearID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"type:varchar(50);not null"`
	Capacity       int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Section) TableName() string {
	return "sections"
}

// NewSection creates a section of a class for an academic year
func NewSection(tenantID, classID, academicYearID uuid.UUID, name string, capacity int) (*Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Section name cannot be empty")
	}
	if classID == uuid.Nil || academicYearID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Section requires a class and an academic year")
	}
	if capacity <= 0 {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Section capacity must be positive")
	}
	return &Section{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClassID:             classID,
		AcademicYearID:      academicYearID,
		Name:                name,
		Capacity:            capacity,
	}, nil
}

// Resize changes the section capacity
func (s *Section) Resize(capacity int) error {
	if capacity <= 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Section capacity must be positive")
	}
	s.Capacity = capacity
	s.Touch()
	s.IncrementVersion()
	return nil
}

// AvailableSeats computes capacity minus active enrollment
func (s *Section) AvailableSeats(activeStudents int64) int64 {
	seats := int64(s.Capacity) - activeStudents
	if seats < 0 {
		return 0
	}
	return seats
}

// HasSeat reports whether another student fits
func (s *Section) HasSeat(activeStudents int64) bool {
	return activeStudents < int64(s.Capacity)
}
