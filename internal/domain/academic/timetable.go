package academic

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// Weekday is a school weekday, Monday = 1 through Sunday = 7
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// IsValid checks if the weekday is in range
func (w Weekday) IsValid() bool {
	return w >= Monday && w <= Sunday
}

// TimetableEntry is one teaching slot in a section's weekly schedule.
// The tuple (section, academic year, weekday, slot) is unique: a
// section can sit in only one lesson at a time.
type TimetableEntry struct {
	shared.TenantAggregateRoot
	SectionID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_timetable_slot"`
	AcademicYearID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_timetable_slot"`
	Weekday        Weekday    `gorm:"not null;uniqueIndex:idx_timetable_slot"`
	SlotNumber     int        `gorm:"not null;uniqueIndex:idx_timetable_slot"`
	Subject        string     `gorm:"type:varchar(100);not null"`
	TeacherID      *uuid.UUID `gorm:"type:uuid;index"`
	StartTime      string     `gorm:"type:varchar(5);not null"`
	EndTime        string     `gorm:"type:varchar(5);not null"`
	Room           string     `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (TimetableEntry) TableName() string {
	return "timetable_entries"
}

// NewTimetableEntry creates one schedule slot. Start and end are wall
// clock times in "HH:MM" form.
func NewTimetableEntry(tenantID, sectionID, academicYearID uuid.UUID, weekday Weekday, slot int, subject, startTime, endTime string) (*TimetableEntry, error) {
	if sectionID == uuid.Nil || academicYearID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Section and academic year are required")
	}
	if !weekday.IsValid() {
		return nil, shared.NewDomainError("INVALID_WEEKDAY", "Weekday must be between Monday and Sunday")
	}
	if slot < 1 {
		return nil, shared.NewDomainError("INVALID_SLOT", "Slot number must be positive")
	}
	if strings.TrimSpace(subject) == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Subject is required")
	}
	start, err := parseClock(startTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(endTime)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, shared.NewDomainError("INVALID_TIME_RANGE", "End time must be after start time")
	}
	return &TimetableEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SectionID:           sectionID,
		AcademicYearID:      academicYearID,
		Weekday:             weekday,
		SlotNumber:          slot,
		Subject:             strings.TrimSpace(subject),
		StartTime:           startTime,
		EndTime:             endTime,
	}, nil
}

// AssignTeacher sets the teacher for the slot
func (e *TimetableEntry) AssignTeacher(teacherID uuid.UUID) error {
	if teacherID == uuid.Nil {
		return shared.NewDomainError("INVALID_REFERENCE", "Teacher is required")
	}
	e.TeacherID = &teacherID
	e.Touch()
	e.IncrementVersion()
	return nil
}

// ClearTeacher removes the teacher assignment, leaving the slot unstaffed
func (e *TimetableEntry) ClearTeacher() {
	e.TeacherID = nil
	e.Touch()
	e.IncrementVersion()
}

// SetRoom records where the lesson takes place
func (e *TimetableEntry) SetRoom(room string) {
	e.Room = strings.TrimSpace(room)
	e.Touch()
	e.IncrementVersion()
}

// OverlapsTeacher reports whether two entries would put the same teacher
// in two places at once
func (e *TimetableEntry) OverlapsTeacher(other *TimetableEntry) bool {
	if e.TeacherID == nil || other.TeacherID == nil {
		return false
	}
	if *e.TeacherID != *other.TeacherID || e.Weekday != other.Weekday || e.AcademicYearID != other.AcademicYearID {
		return false
	}
	eStart, _ := parseClock(e.StartTime)
	eEnd, _ := parseClock(e.EndTime)
	oStart, _ := parseClock(other.StartTime)
	oEnd, _ := parseClock(other.EndTime)
	return eStart.Before(oEnd) && oStart.Before(eEnd)
}

func parseClock(s string) (time.Time, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_TIME", "Time must be in HH:MM format")
	}
	return t, nil
}
