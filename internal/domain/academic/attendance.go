package academic

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// AttendanceStatus is the recorded state of a student for one school day
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceHalfDay AttendanceStatus = "half_day"
	AttendanceLeave   AttendanceStatus = "leave"
	AttendanceHoliday AttendanceStatus = "holiday"
)

// IsValid checks if the status is a valid AttendanceStatus
func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceHalfDay, AttendanceLeave, AttendanceHoliday:
		return true
	}
	return false
}

// CountsAsPresent reports whether the status counts toward attendance
// percentages. Late arrivals count; a half day does not.
func (s AttendanceStatus) CountsAsPresent() bool {
	return s == AttendancePresent || s == AttendanceLate
}

// AttendanceRecord is one student's state for one calendar date. The
// pair (student, date) is unique within a tenant; marking the same day
// twice overwrites the earlier record instead of erroring.
type AttendanceRecord struct {
	shared.TenantAggregateRoot
	StudentID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_student_date"`
	SectionID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Date      time.Time        `gorm:"type:date;not null;uniqueIndex:idx_attendance_student_date"`
	Status    AttendanceStatus `gorm:"type:varchar(20);not null"`
	Remarks   string           `gorm:"type:varchar(500)"`
	MarkedBy  uuid.UUID        `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// NewAttendanceRecord marks a student's attendance for a date. The date
// is truncated to midnight UTC so two timestamps on the same calendar
// day collapse onto one row.
func NewAttendanceRecord(tenantID, studentID, sectionID, markedBy uuid.UUID, date time.Time, status AttendanceStatus, remarks string) (*AttendanceRecord, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid attendance status")
	}
	if studentID == uuid.Nil || sectionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Student and section are required")
	}
	if markedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Marking user is required")
	}
	return &AttendanceRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		StudentID:           studentID,
		SectionID:           sectionID,
		Date:                NormalizeDate(date),
		Status:              status,
		Remarks:             remarks,
		MarkedBy:            markedBy,
	}, nil
}

// Amend replaces the status of an existing record
func (r *AttendanceRecord) Amend(status AttendanceStatus, remarks string, markedBy uuid.UUID) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid attendance status")
	}
	r.Status = status
	r.Remarks = remarks
	r.MarkedBy = markedBy
	r.Touch()
	r.IncrementVersion()
	return nil
}

// NormalizeDate strips the time-of-day component
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AttendanceSummary aggregates a student's records over a date range
type AttendanceSummary struct {
	StudentID    uuid.UUID `json:"student_id"`
	TotalDays    int       `json:"total_days"`
	PresentDays  int       `json:"present_days"`
	AbsentDays   int       `json:"absent_days"`
	LateDays     int       `json:"late_days"`
	LeaveDays    int       `json:"leave_days"`
	HalfDays     int       `json:"half_days"`
	HolidayCount int       `json:"holiday_count"`
}

// Percentage returns present days over countable days. Holidays are not
// school days and are excluded from the denominator.
func (s AttendanceSummary) Percentage() float64 {
	countable := s.TotalDays - s.HolidayCount
	if countable <= 0 {
		return 0
	}
	return float64(s.PresentDays) / float64(countable) * 100
}
