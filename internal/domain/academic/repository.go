package academic

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// AcademicYearRepository manages academic year aggregates
type AcademicYearRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*AcademicYear, error)
	FindCurrent(ctx context.Context, tenantID uuid.UUID) (*AcademicYear, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*AcademicYear, error)
	Count(ctx context.Context, tenantID uuid.UUID) (int64, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error)
	Save(ctx context.Context, year *AcademicYear) error
	// SetCurrent marks the given year current and unsets every other
	// year of the tenant in the same transaction, so the tenant never
	// observes zero or two current years.
	SetCurrent(ctx context.Context, tenantID, yearID uuid.UUID) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// ClassRepository manages classes and their sections
type ClassRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*SchoolClass, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*SchoolClass, error)
	Count(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, class *SchoolClass) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	FindSectionByID(ctx context.Context, tenantID, id uuid.UUID) (*Section, error)
	FindSections(ctx context.Context, tenantID, classID, academicYearID uuid.UUID) ([]*Section, error)
	SaveSection(ctx context.Context, section *Section) error
	DeleteSection(ctx context.Context, tenantID, id uuid.UUID) error
}

// StudentRepository manages student profiles and guardian links
type StudentRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Student, error)
	FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*Student, error)
	FindByAdmissionNo(ctx context.Context, tenantID uuid.UUID, admissionNo string) (*Student, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Student, error)
	FindBySection(ctx context.Context, tenantID, sectionID uuid.UUID) ([]*Student, error)
	Count(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountActiveInSection(ctx context.Context, tenantID, sectionID uuid.UUID) (int64, error)
	ExistsByAdmissionNo(ctx context.Context, tenantID uuid.UUID, admissionNo string) (bool, error)
	Save(ctx context.Context, student *Student) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// GuardianRepository manages guardians and the student-guardian links
type GuardianRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Guardian, error)
	FindByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]*Guardian, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Guardian, error)
	Save(ctx context.Context, guardian *Guardian) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	Link(ctx context.Context, link *StudentGuardian) error
	Unlink(ctx context.Context, tenantID, studentID, guardianID uuid.UUID) error
	FindLinks(ctx context.Context, tenantID, studentID uuid.UUID) ([]*StudentGuardian, error)
}

// AttendanceRepository manages daily attendance records
type AttendanceRepository interface {
	// Mark upserts on (student, date): a second mark for the same day
	// overwrites the first instead of failing.
	Mark(ctx context.Context, record *AttendanceRecord) error
	FindByStudentAndDate(ctx context.Context, tenantID, studentID uuid.UUID, date time.Time) (*AttendanceRecord, error)
	FindBySectionAndDate(ctx context.Context, tenantID, sectionID uuid.UUID, date time.Time) ([]*AttendanceRecord, error)
	FindByStudentRange(ctx context.Context, tenantID, studentID uuid.UUID, from, to time.Time) ([]*AttendanceRecord, error)
	Summary(ctx context.Context, tenantID, studentID uuid.UUID, from, to time.Time) (*AttendanceSummary, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// LeaveRequestRepository manages leave requests
type LeaveRequestRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*LeaveRequest, error)
	FindByRequester(ctx context.Context, tenantID, requesterID uuid.UUID, filter shared.Filter) ([]*LeaveRequest, error)
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status LeaveStatus, filter shared.Filter) ([]*LeaveRequest, error)
	Count(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, request *LeaveRequest) error
}

// TimetableRepository manages timetable entries
type TimetableRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*TimetableEntry, error)
	FindBySection(ctx context.Context, tenantID, sectionID, academicYearID uuid.UUID) ([]*TimetableEntry, error)
	FindByTeacher(ctx context.Context, tenantID, teacherID, academicYearID uuid.UUID) ([]*TimetableEntry, error)
	Save(ctx context.Context, entry *TimetableEntry) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
