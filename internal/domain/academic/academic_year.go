// Package academic holds the school-side aggregates: academic years,
// classes and sections, students and their guardians, attendance, leave
// requests and timetables. Everything here is tenant-owned.
package academic

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// AcademicYearStatus represents the status of an academic year
type AcademicYearStatus string

const (
	AcademicYearStatusUpcoming AcademicYearStatus = "upcoming"
	AcademicYearStatusActive   AcademicYearStatus = "active"
	AcademicYearStatusClosed   AcademicYearStatus = "closed"
)

// AcademicYear is a tenant's school year. At most one year per tenant
// carries IsCurrent = true; the flip is done atomically by the
// repository's SetCurrent, never by toggling the flag directly.
type AcademicYear struct {
	shared.TenantAggregateRoot
	Name      string             `gorm:"type:varchar(50);not null"`
	StartDate time.Time          `gorm:"not null"`
	EndDate   time.Time          `gorm:"not null"`
	IsCurrent bool               `gorm:"not null;default:false"`
	Status    AcademicYearStatus `gorm:"type:varchar(20);not null;default:'upcoming'"`
}

// TableName returns the table name for GORM
func (AcademicYear) TableName() string {
	return "academic_years"
}

// NewAcademicYear creates an academic year for a tenant
func NewAcademicYear(tenantID uuid.UUID, name string, start, end time.Time) (*AcademicYear, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Academic year name cannot be empty")
	}
	if !end.After(start) {
		return nil, shared.NewDomainError("INVALID_RANGE", "Academic year end must be after start")
	}
	return &AcademicYear{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		StartDate:           start,
		EndDate:             end,
		Status:              AcademicYearStatusUpcoming,
	}, nil
}

// MarkCurrent flips the in-memory flag and activates the year. Callers
// go through the repository's SetCurrent, which unsets every other year
// of the tenant in the same transaction.
func (y *AcademicYear) MarkCurrent() {
	y.IsCurrent = true
	y.Status = AcademicYearStatusActive
	y.Touch()
	y.IncrementVersion()
}

// Close ends the year; a closed year cannot be current
func (y *AcademicYear) Close() error {
	if y.IsCurrent {
		return shared.ErrInvalidState
	}
	y.Status = AcademicYearStatusClosed
	y.Touch()
	y.IncrementVersion()
	return nil
}

// Contains reports whether the date falls inside the year
func (y *AcademicYear) Contains(date time.Time) bool {
	return !date.Before(y.StartDate) && !date.After(y.EndDate)
}
