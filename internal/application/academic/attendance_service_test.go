package academic

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/academic"
)

func newAttendanceTestService() (*AttendanceService, *MockAttendanceRepository, *MockStudentRepository) {
	attendanceRepo := new(MockAttendanceRepository)
	studentRepo := new(MockStudentRepository)
	return NewAttendanceService(attendanceRepo, studentRepo, zap.NewNop()), attendanceRepo, studentRepo
}

func TestAttendanceService_Mark(t *testing.T) {
	tenantID := uuid.New()
	service, attendanceRepo, studentRepo := newAttendanceTestService()

	student := newTestStudent(t, tenantID)
	studentRepo.On("FindByID", mock.Anything, tenantID, student.ID).Return(student, nil)
	attendanceRepo.On("Mark", mock.Anything, mock.AnythingOfType("*academic.AttendanceRecord")).Return(nil)

	dto, err := service.Mark(context.Background(), tenantID, MarkAttendanceInput{
		StudentID: student.ID,
		SectionID: student.SectionID,
		Date:      time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC),
		Status:    string(academic.AttendancePresent),
		MarkedBy:  uuid.New(),
	})

	require.NoError(t, err)
	assert.Equal(t, string(academic.AttendancePresent), dto.Status)
	// time-of-day is stripped so a re-mark the same day hits the same row
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), dto.Date)
}

func TestAttendanceService_Mark_InactiveStudent(t *testing.T) {
	tenantID := uuid.New()
	service, attendanceRepo, studentRepo := newAttendanceTestService()

	student := newTestStudent(t, tenantID)
	require.NoError(t, student.ChangeStatus(academic.StudentStatusWithdrawn))
	studentRepo.On("FindByID", mock.Anything, tenantID, student.ID).Return(student, nil)

	_, err := service.Mark(context.Background(), tenantID, MarkAttendanceInput{
		StudentID: student.ID,
		SectionID: student.SectionID,
		Date:      time.Now(),
		Status:    string(academic.AttendancePresent),
		MarkedBy:  uuid.New(),
	})

	assertDomainCode(t, err, "STUDENT_NOT_ACTIVE")
	attendanceRepo.AssertNotCalled(t, "Mark", mock.Anything, mock.Anything)
}

func TestAttendanceService_Mark_InvalidStatus(t *testing.T) {
	tenantID := uuid.New()
	service, _, studentRepo := newAttendanceTestService()

	student := newTestStudent(t, tenantID)
	studentRepo.On("FindByID", mock.Anything, tenantID, student.ID).Return(student, nil)

	_, err := service.Mark(context.Background(), tenantID, MarkAttendanceInput{
		StudentID: student.ID,
		SectionID: student.SectionID,
		Date:      time.Now(),
		Status:    "tardy",
		MarkedBy:  uuid.New(),
	})

	assertDomainCode(t, err, "INVALID_STATUS")
}

func TestAttendanceService_BulkMark_CollectsFailures(t *testing.T) {
	tenantID := uuid.New()
	service, attendanceRepo, studentRepo := newAttendanceTestService()

	good := newTestStudent(t, tenantID)
	bad := newTestStudent(t, tenantID)
	require.NoError(t, bad.ChangeStatus(academic.StudentStatusTransferred))

	studentRepo.On("FindByID", mock.Anything, tenantID, good.ID).Return(good, nil)
	studentRepo.On("FindByID", mock.Anything, tenantID, bad.ID).Return(bad, nil)
	attendanceRepo.On("Mark", mock.Anything, mock.AnythingOfType("*academic.AttendanceRecord")).Return(nil)

	result, err := service.BulkMark(context.Background(), tenantID, BulkMarkInput{
		SectionID: good.SectionID,
		Date:      time.Now(),
		MarkedBy:  uuid.New(),
		Entries: []BulkMarkEntry{
			{StudentID: good.ID, Status: string(academic.AttendancePresent)},
			{StudentID: bad.ID, Status: string(academic.AttendanceAbsent)},
		},
	})

	require.NoError(t, err)
	require.Len(t, result.Marked, 1)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, bad.ID, result.Failed[0].StudentID)
	assert.Equal(t, "STUDENT_NOT_ACTIVE", result.Failed[0].Code)
}

func TestAttendanceService_Summarize_InvalidRange(t *testing.T) {
	tenantID := uuid.New()
	service, _, _ := newAttendanceTestService()

	from := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	_, err := service.Summarize(context.Background(), tenantID, uuid.New(), from, to)

	assertDomainCode(t, err, "INVALID_DATE_RANGE")
}

func TestAttendanceService_Summarize(t *testing.T) {
	tenantID := uuid.New()
	service, attendanceRepo, _ := newAttendanceTestService()

	studentID := uuid.New()
	from := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	attendanceRepo.On("Summary", mock.Anything, tenantID, studentID, from, to).
		Return(&academic.AttendanceSummary{StudentID: studentID, TotalDays: 20, PresentDays: 18, AbsentDays: 2}, nil)

	summary, err := service.Summarize(context.Background(), tenantID, studentID, from, to)

	require.NoError(t, err)
	assert.Equal(t, 20, summary.TotalDays)
	assert.InDelta(t, 90.0, summary.Percentage(), 0.01)
}
