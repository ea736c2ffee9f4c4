package academic

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/academic"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// AttendanceService marks and reports on daily student attendance.
type AttendanceService struct {
	attendanceRepo academic.AttendanceRepository
	studentRepo    academic.StudentRepository
	logger         *zap.Logger
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(
	attendanceRepo academic.AttendanceRepository,
	studentRepo academic.StudentRepository,
	logger *zap.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		studentRepo:    studentRepo,
		logger:         logger,
	}
}

// MarkAttendanceInput contains input for marking one student's attendance
type MarkAttendanceInput struct {
	StudentID uuid.UUID
	SectionID uuid.UUID
	Date      time.Time
	Status    string
	Remarks   string
	MarkedBy  uuid.UUID
}

// BulkMarkInput contains input for marking a whole section in one call
type BulkMarkInput struct {
	SectionID uuid.UUID
	Date      time.Time
	MarkedBy  uuid.UUID
	Entries   []BulkMarkEntry
}

// BulkMarkEntry is one student's status inside a bulk mark
type BulkMarkEntry struct {
	StudentID uuid.UUID
	Status    string
	Remarks   string
}

// BulkMarkResult reports how a bulk mark went per student
type BulkMarkResult struct {
	Marked []AttendanceDTO   `json:"marked"`
	Failed []BulkMarkFailure `json:"failed,omitempty"`
}

// BulkMarkFailure names a student whose mark was rejected and why
type BulkMarkFailure struct {
	StudentID uuid.UUID `json:"student_id"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
}

// Mark records one student's attendance for a date. Marking the same
// student twice for the same day overwrites the earlier record.
func (s *AttendanceService) Mark(ctx context.Context, tenantID uuid.UUID, input MarkAttendanceInput) (*AttendanceDTO, error) {
	student, err := s.studentRepo.FindByID(ctx, tenantID, input.StudentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STUDENT_NOT_FOUND", "Student not found")
		}
		s.logger.Error("Failed to find student", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find student")
	}
	if !student.IsActive() {
		return nil, shared.NewDomainError("STUDENT_NOT_ACTIVE", "Attendance can only be marked for active students")
	}

	record, err := academic.NewAttendanceRecord(tenantID, input.StudentID, input.SectionID, input.MarkedBy,
		input.Date, academic.AttendanceStatus(input.Status), input.Remarks)
	if err != nil {
		return nil, err
	}
	if err := s.attendanceRepo.Mark(ctx, record); err != nil {
		s.logger.Error("Failed to mark attendance", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to mark attendance")
	}

	s.logger.Info("Attendance marked",
		zap.String("tenant_id", tenantID.String()),
		zap.String("student_id", input.StudentID.String()),
		zap.String("status", input.Status))

	return toAttendanceDTO(record), nil
}

// BulkMark marks a whole section's attendance for a date. Individual
// failures are collected instead of aborting the batch.
func (s *AttendanceService) BulkMark(ctx context.Context, tenantID uuid.UUID, input BulkMarkInput) (*BulkMarkResult, error) {
	result := &BulkMarkResult{}
	for _, entry := range input.Entries {
		dto, err := s.Mark(ctx, tenantID, MarkAttendanceInput{
			StudentID: entry.StudentID,
			SectionID: input.SectionID,
			Date:      input.Date,
			Status:    entry.Status,
			Remarks:   entry.Remarks,
			MarkedBy:  input.MarkedBy,
		})
		if err != nil {
			failure := BulkMarkFailure{StudentID: entry.StudentID, Code: "INTERNAL_ERROR", Message: err.Error()}
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				failure.Code = domainErr.Code
				failure.Message = domainErr.Message
			}
			result.Failed = append(result.Failed, failure)
			continue
		}
		result.Marked = append(result.Marked, *dto)
	}
	return result, nil
}

// GetForSection retrieves a section's attendance sheet for a date
func (s *AttendanceService) GetForSection(ctx context.Context, tenantID, sectionID uuid.UUID, date time.Time) ([]AttendanceDTO, error) {
	records, err := s.attendanceRepo.FindBySectionAndDate(ctx, tenantID, sectionID, academic.NormalizeDate(date))
	if err != nil {
		s.logger.Error("Failed to load section attendance", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load section attendance")
	}
	dtos := make([]AttendanceDTO, len(records))
	for i, r := range records {
		dtos[i] = *toAttendanceDTO(r)
	}
	return dtos, nil
}

// GetForStudent retrieves a student's attendance over a date range
func (s *AttendanceService) GetForStudent(ctx context.Context, tenantID, studentID uuid.UUID, from, to time.Time) ([]AttendanceDTO, error) {
	from = academic.NormalizeDate(from)
	to = academic.NormalizeDate(to)
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Range end cannot be before range start")
	}
	records, err := s.attendanceRepo.FindByStudentRange(ctx, tenantID, studentID, from, to)
	if err != nil {
		s.logger.Error("Failed to load student attendance", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load student attendance")
	}
	dtos := make([]AttendanceDTO, len(records))
	for i, r := range records {
		dtos[i] = *toAttendanceDTO(r)
	}
	return dtos, nil
}

// Summarize aggregates a student's attendance over a date range
func (s *AttendanceService) Summarize(ctx context.Context, tenantID, studentID uuid.UUID, from, to time.Time) (*academic.AttendanceSummary, error) {
	from = academic.NormalizeDate(from)
	to = academic.NormalizeDate(to)
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Range end cannot be before range start")
	}
	summary, err := s.attendanceRepo.Summary(ctx, tenantID, studentID, from, to)
	if err != nil {
		s.logger.Error("Failed to summarize attendance", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to summarize attendance")
	}
	return summary, nil
}
