package academic

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/schoolhub/backend/internal/domain/academic"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// MockAcademicYearRepository is a mock implementation of academic.AcademicYearRepository
type MockAcademicYearRepository struct {
	mock.Mock
}

func (m *MockAcademicYearRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*academic.AcademicYear, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.AcademicYear), args.Error(1)
}

func (m *MockAcademicYearRepository) FindCurrent(ctx context.Context, tenantID uuid.UUID) (*academic.AcademicYear, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.AcademicYear), args.Error(1)
}

func (m *MockAcademicYearRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*academic.AcademicYear, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*academic.AcademicYear), args.Error(1)
}

func (m *MockAcademicYearRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAcademicYearRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, tenantID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockAcademicYearRepository) Save(ctx context.Context, year *academic.AcademicYear) error {
	args := m.Called(ctx, year)
	return args.Error(0)
}

func (m *MockAcademicYearRepository) SetCurrent(ctx context.Context, tenantID, yearID uuid.UUID) error {
	args := m.Called(ctx, tenantID, yearID)
	return args.Error(0)
}

func (m *MockAcademicYearRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockClassRepository is a mock implementation of academic.ClassRepository
type MockClassRepository struct {
	mock.Mock
}

func (m *MockClassRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*academic.SchoolClass, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.SchoolClass), args.Error(1)
}

func (m *MockClassRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*academic.SchoolClass, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*academic.SchoolClass), args.Error(1)
}

func (m *MockClassRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClassRepository) Save(ctx context.Context, class *academic.SchoolClass) error {
	args := m.Called(ctx, class)
	return args.Error(0)
}

func (m *MockClassRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockClassRepository) FindSectionByID(ctx context.Context, tenantID, id uuid.UUID) (*academic.Section, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.Section), args.Error(1)
}

func (m *MockClassRepository) FindSections(ctx context.Context, tenantID, classID, academicYearID uuid.UUID) ([]*academic.Section, error) {
	args := m.Called(ctx, tenantID, classID, academicYearID)
	return args.Get(0).([]*academic.Section), args.Error(1)
}

func (m *MockClassRepository) SaveSection(ctx context.Context, section *academic.Section) error {
	args := m.Called(ctx, section)
	return args.Error(0)
}

func (m *MockClassRepository) DeleteSection(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockStudentRepository is a mock implementation of academic.StudentRepository
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*academic.Student, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.Student), args.Error(1)
}

func (m *MockStudentRepository) FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*academic.Student, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.Student), args.Error(1)
}

func (m *MockStudentRepository) FindByAdmissionNo(ctx context.Context, tenantID uuid.UUID, admissionNo string) (*academic.Student, error) {
	args := m.Called(ctx, tenantID, admissionNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.Student), args.Error(1)
}

func (m *MockStudentRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*academic.Student, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*academic.Student), args.Error(1)
}

func (m *MockStudentRepository) FindBySection(ctx context.Context, tenantID, sectionID uuid.UUID) ([]*academic.Student, error) {
	args := m.Called(ctx, tenantID, sectionID)
	return args.Get(0).([]*academic.Student), args.Error(1)
}

func (m *MockStudentRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStudentRepository) CountActiveInSection(ctx context.Context, tenantID, sectionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, sectionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStudentRepository) ExistsByAdmissionNo(ctx context.Context, tenantID uuid.UUID, admissionNo string) (bool, error) {
	args := m.Called(ctx, tenantID, admissionNo)
	return args.Bool(0), args.Error(1)
}

func (m *MockStudentRepository) Save(ctx context.Context, student *academic.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockGuardianRepository is a mock implementation of academic.GuardianRepository
type MockGuardianRepository struct {
	mock.Mock
}

func (m *MockGuardianRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*academic.Guardian, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.Guardian), args.Error(1)
}

func (m *MockGuardianRepository) FindByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]*academic.Guardian, error) {
	args := m.Called(ctx, tenantID, studentID)
	return args.Get(0).([]*academic.Guardian), args.Error(1)
}

func (m *MockGuardianRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*academic.Guardian, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*academic.Guardian), args.Error(1)
}

func (m *MockGuardianRepository) Save(ctx context.Context, guardian *academic.Guardian) error {
	args := m.Called(ctx, guardian)
	return args.Error(0)
}

func (m *MockGuardianRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockGuardianRepository) Link(ctx context.Context, link *academic.StudentGuardian) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockGuardianRepository) Unlink(ctx context.Context, tenantID, studentID, guardianID uuid.UUID) error {
	args := m.Called(ctx, tenantID, studentID, guardianID)
	return args.Error(0)
}

func (m *MockGuardianRepository) FindLinks(ctx context.Context, tenantID, studentID uuid.UUID) ([]*academic.StudentGuardian, error) {
	args := m.Called(ctx, tenantID, studentID)
	return args.Get(0).([]*academic.StudentGuardian), args.Error(1)
}

// MockAttendanceRepository is a mock implementation of academic.AttendanceRepository
type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) Mark(ctx context.Context, record *academic.AttendanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAttendanceRepository) FindByStudentAndDate(ctx context.Context, tenantID, studentID uuid.UUID, date time.Time) (*academic.AttendanceRecord, error) {
	args := m.Called(ctx, tenantID, studentID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRepository) FindBySectionAndDate(ctx context.Context, tenantID, sectionID uuid.UUID, date time.Time) ([]*academic.AttendanceRecord, error) {
	args := m.Called(ctx, tenantID, sectionID, date)
	return args.Get(0).([]*academic.AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRepository) FindByStudentRange(ctx context.Context, tenantID, studentID uuid.UUID, from, to time.Time) ([]*academic.AttendanceRecord, error) {
	args := m.Called(ctx, tenantID, studentID, from, to)
	return args.Get(0).([]*academic.AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRepository) Summary(ctx context.Context, tenantID, studentID uuid.UUID, from, to time.Time) (*academic.AttendanceSummary, error) {
	args := m.Called(ctx, tenantID, studentID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.AttendanceSummary), args.Error(1)
}

func (m *MockAttendanceRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockLeaveRequestRepository is a mock implementation of academic.LeaveRequestRepository
type MockLeaveRequestRepository struct {
	mock.Mock
}

func (m *MockLeaveRequestRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*academic.LeaveRequest, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.LeaveRequest), args.Error(1)
}

func (m *MockLeaveRequestRepository) FindByRequester(ctx context.Context, tenantID, requesterID uuid.UUID, filter shared.Filter) ([]*academic.LeaveRequest, error) {
	args := m.Called(ctx, tenantID, requesterID, filter)
	return args.Get(0).([]*academic.LeaveRequest), args.Error(1)
}

func (m *MockLeaveRequestRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status academic.LeaveStatus, filter shared.Filter) ([]*academic.LeaveRequest, error) {
	args := m.Called(ctx, tenantID, status, filter)
	return args.Get(0).([]*academic.LeaveRequest), args.Error(1)
}

func (m *MockLeaveRequestRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaveRequestRepository) Save(ctx context.Context, request *academic.LeaveRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

// MockTimetableRepository is a mock implementation of academic.TimetableRepository
type MockTimetableRepository struct {
	mock.Mock
}

func (m *MockTimetableRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*academic.TimetableEntry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.TimetableEntry), args.Error(1)
}

func (m *MockTimetableRepository) FindBySection(ctx context.Context, tenantID, sectionID, academicYearID uuid.UUID) ([]*academic.TimetableEntry, error) {
	args := m.Called(ctx, tenantID, sectionID, academicYearID)
	return args.Get(0).([]*academic.TimetableEntry), args.Error(1)
}

func (m *MockTimetableRepository) FindByTeacher(ctx context.Context, tenantID, teacherID, academicYearID uuid.UUID) ([]*academic.TimetableEntry, error) {
	args := m.Called(ctx, tenantID, teacherID, academicYearID)
	return args.Get(0).([]*academic.TimetableEntry), args.Error(1)
}

func (m *MockTimetableRepository) Save(ctx context.Context, entry *academic.TimetableEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTimetableRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}
