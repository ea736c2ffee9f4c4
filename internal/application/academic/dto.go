package academic

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/academic"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// AcademicYearDTO represents an academic year returned to clients
type AcademicYearDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsCurrent bool      `json:"is_current"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toAcademicYearDTO(y *academic.AcademicYear) *AcademicYearDTO {
	return &AcademicYearDTO{
		ID:        y.ID,
		Name:      y.Name,
		StartDate: y.StartDate,
		EndDate:   y.EndDate,
		IsCurrent: y.IsCurrent,
		Status:    string(y.Status),
		CreatedAt: y.CreatedAt,
	}
}

// ClassDTO represents a class with its sections
type ClassDTO struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	NumericLevel   int          `json:"numeric_level"`
	ClassTeacherID *uuid.UUID   `json:"class_teacher_id,omitempty"`
	Sections       []SectionDTO `json:"sections,omitempty"`
}

func toClassDTO(c *academic.SchoolClass) *ClassDTO {
	return &ClassDTO{
		ID:             c.ID,
		Name:           c.Name,
		NumericLevel:   c.NumericLevel,
		ClassTeacherID: c.ClassTeacherID,
	}
}

// SectionDTO represents a section with live seat availability
type SectionDTO struct {
	ID             uuid.UUID `json:"id"`
	ClassID        uuid.UUID `json:"class_id"`
	AcademicYearID uuid.UUID `json:"academic_year_id"`
	Name           string    `json:"name"`
	Capacity       int       `json:"capacity"`
	Enrolled       int64     `json:"enrolled"`
	AvailableSeats int64     `json:"available_seats"`
}

func toSectionDTO(s *academic.Section, enrolled int64) *SectionDTO {
	return &SectionDTO{
		ID:             s.ID,
		ClassID:        s.ClassID,
		AcademicYearID: s.AcademicYearID,
		Name:           s.Name,
		Capacity:       s.Capacity,
		Enrolled:       enrolled,
		AvailableSeats: s.AvailableSeats(enrolled),
	}
}

// StudentDTO represents a student profile
type StudentDTO struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	ClassID        uuid.UUID  `json:"class_id"`
	SectionID      uuid.UUID  `json:"section_id"`
	AcademicYearID uuid.UUID  `json:"academic_year_id"`
	AdmissionNo    string     `json:"admission_no"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Gender         string     `json:"gender,omitempty"`
	Status         string     `json:"status"`
	AdmittedAt     time.Time  `json:"admitted_at"`
}

func toStudentDTO(s *academic.Student) *StudentDTO {
	return &StudentDTO{
		ID:             s.ID,
		UserID:         s.UserID,
		ClassID:        s.ClassID,
		SectionID:      s.SectionID,
		AcademicYearID: s.AcademicYearID,
		AdmissionNo:    s.AdmissionNo,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		DateOfBirth:    s.DateOfBirth,
		Gender:         s.Gender,
		Status:         string(s.Status),
		AdmittedAt:     s.AdmittedAt,
	}
}

// GuardianDTO represents a guardian with link metadata when loaded
// through a student.
type GuardianDTO struct {
	ID               uuid.UUID `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email,omitempty"`
	Address          string    `json:"address,omitempty"`
	Relationship     string    `json:"relationship,omitempty"`
	EmergencyContact bool      `json:"emergency_contact"`
	PickupPermitted  bool      `json:"pickup_permitted"`
}

func toGuardianDTO(g *academic.Guardian) *GuardianDTO {
	return &GuardianDTO{
		ID:        g.ID,
		FirstName: g.FirstName,
		LastName:  g.LastName,
		Phone:     g.Phone,
		Email:     g.Email,
		Address:   g.Address,
	}
}

// AttendanceDTO represents one attendance record
type AttendanceDTO struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"student_id"`
	SectionID uuid.UUID `json:"section_id"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
	Remarks   string    `json:"remarks,omitempty"`
	MarkedBy  uuid.UUID `json:"marked_by"`
}

func toAttendanceDTO(r *academic.AttendanceRecord) *AttendanceDTO {
	return &AttendanceDTO{
		ID:        r.ID,
		StudentID: r.StudentID,
		SectionID: r.SectionID,
		Date:      r.Date,
		Status:    string(r.Status),
		Remarks:   r.Remarks,
		MarkedBy:  r.MarkedBy,
	}
}

// LeaveRequestDTO represents a leave request
type LeaveRequestDTO struct {
	ID            uuid.UUID  `json:"id"`
	RequesterType string     `json:"requester_type"`
	RequesterID   uuid.UUID  `json:"requester_id"`
	FromDate      time.Time  `json:"from_date"`
	ToDate        time.Time  `json:"to_date"`
	Days          int        `json:"days"`
	Reason        string     `json:"reason"`
	Status        string     `json:"status"`
	ReviewedBy    *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewRemarks string     `json:"review_remarks,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toLeaveRequestDTO(l *academic.LeaveRequest) *LeaveRequestDTO {
	return &LeaveRequestDTO{
		ID:            l.ID,
		RequesterType: string(l.RequesterType),
		RequesterID:   l.RequesterID,
		FromDate:      l.FromDate,
		ToDate:        l.ToDate,
		Days:          l.Days(),
		Reason:        l.Reason,
		Status:        string(l.Status),
		ReviewedBy:    l.ReviewedBy,
		ReviewedAt:    l.ReviewedAt,
		ReviewRemarks: l.ReviewRemarks,
		CreatedAt:     l.CreatedAt,
	}
}

// TimetableEntryDTO represents one timetable slot
type TimetableEntryDTO struct {
	ID             uuid.UUID  `json:"id"`
	SectionID      uuid.UUID  `json:"section_id"`
	AcademicYearID uuid.UUID  `json:"academic_year_id"`
	Weekday        int        `json:"weekday"`
	SlotNumber     int        `json:"slot_number"`
	Subject        string     `json:"subject"`
	TeacherID      *uuid.UUID `json:"teacher_id,omitempty"`
	StartTime      string     `json:"start_time"`
	EndTime        string     `json:"end_time"`
	Room           string     `json:"room,omitempty"`
}

func toTimetableEntryDTO(e *academic.TimetableEntry) *TimetableEntryDTO {
	return &TimetableEntryDTO{
		ID:             e.ID,
		SectionID:      e.SectionID,
		AcademicYearID: e.AcademicYearID,
		Weekday:        int(e.Weekday),
		SlotNumber:     e.SlotNumber,
		Subject:        e.Subject,
		TeacherID:      e.TeacherID,
		StartTime:      e.StartTime,
		EndTime:        e.EndTime,
		Room:           e.Room,
	}
}

// ListFilter is the common pagination filter for academic listings
type ListFilter struct {
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
	Keyword  string
}

// ToSharedFilter converts ListFilter to shared.Filter
func (f ListFilter) ToSharedFilter() shared.Filter {
	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  f.SortBy,
		OrderDir: f.SortDir,
		Search:   f.Keyword,
		Filters:  make(map[string]interface{}),
	}
}
