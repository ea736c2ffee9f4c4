package academic

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/academic"
	"github.com/schoolhub/backend/internal/domain/shared"
)

func newEnrollmentTestService() (*EnrollmentService, *MockStudentRepository, *MockGuardianRepository, *MockClassRepository) {
	studentRepo := new(MockStudentRepository)
	guardianRepo := new(MockGuardianRepository)
	classRepo := new(MockClassRepository)
	return NewEnrollmentService(studentRepo, guardianRepo, classRepo, zap.NewNop()), studentRepo, guardianRepo, classRepo
}

func newTestStudent(t *testing.T, tenantID uuid.UUID) *academic.Student {
	t.Helper()
	student, err := academic.NewStudent(tenantID, uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		"ADM-001", "Asha", "Iyer")
	require.NoError(t, err)
	return student
}

func TestEnrollmentService_Enroll(t *testing.T) {
	tenantID := uuid.New()
	service, studentRepo, _, classRepo := newEnrollmentTestService()

	section := newTestSection(t, tenantID, 40)
	studentRepo.On("ExistsByAdmissionNo", mock.Anything, tenantID, "ADM-100").Return(false, nil)
	classRepo.On("FindSectionByID", mock.Anything, tenantID, section.ID).Return(section, nil)
	studentRepo.On("CountActiveInSection", mock.Anything, tenantID, section.ID).Return(int64(10), nil)
	studentRepo.On("Save", mock.Anything, mock.AnythingOfType("*academic.Student")).Return(nil)

	dto, err := service.Enroll(context.Background(), tenantID, EnrollStudentInput{
		UserID:         uuid.New(),
		ClassID:        section.ClassID,
		SectionID:      section.ID,
		AcademicYearID: section.AcademicYearID,
		AdmissionNo:    "ADM-100",
		FirstName:      "Ravi",
		LastName:       "Menon",
	})

	require.NoError(t, err)
	assert.Equal(t, "ADM-100", dto.AdmissionNo)
	assert.Equal(t, string(academic.StudentStatusActive), dto.Status)
	studentRepo.AssertExpectations(t)
}

func TestEnrollmentService_Enroll_DuplicateAdmissionNo(t *testing.T) {
	tenantID := uuid.New()
	service, studentRepo, _, _ := newEnrollmentTestService()

	studentRepo.On("ExistsByAdmissionNo", mock.Anything, tenantID, "ADM-100").Return(true, nil)

	_, err := service.Enroll(context.Background(), tenantID, EnrollStudentInput{
		UserID:         uuid.New(),
		ClassID:        uuid.New(),
		SectionID:      uuid.New(),
		AcademicYearID: uuid.New(),
		AdmissionNo:    "ADM-100",
		FirstName:      "Ravi",
		LastName:       "Menon",
	})

	assertDomainCode(t, err, "ADMISSION_NO_EXISTS")
}

func TestEnrollmentService_Enroll_SectionFull(t *testing.T) {
	tenantID := uuid.New()
	service, studentRepo, _, classRepo := newEnrollmentTestService()

	section := newTestSection(t, tenantID, 20)
	studentRepo.On("ExistsByAdmissionNo", mock.Anything, tenantID, "ADM-101").Return(false, nil)
	classRepo.On("FindSectionByID", mock.Anything, tenantID, section.ID).Return(section, nil)
	studentRepo.On("CountActiveInSection", mock.Anything, tenantID, section.ID).Return(int64(20), nil)

	_, err := service.Enroll(context.Background(), tenantID, EnrollStudentInput{
		UserID:         uuid.New(),
		ClassID:        section.ClassID,
		SectionID:      section.ID,
		AcademicYearID: section.AcademicYearID,
		AdmissionNo:    "ADM-101",
		FirstName:      "Ravi",
		LastName:       "Menon",
	})

	assertDomainCode(t, err, "SECTION_FULL")
	studentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestEnrollmentService_Transfer_TargetFull(t *testing.T) {
	tenantID := uuid.New()
	service, studentRepo, _, classRepo := newEnrollmentTestService()

	student := newTestStudent(t, tenantID)
	target := newTestSection(t, tenantID, 1)
	studentRepo.On("FindByID", mock.Anything, tenantID, student.ID).Return(student, nil)
	classRepo.On("FindSectionByID", mock.Anything, tenantID, target.ID).Return(target, nil)
	studentRepo.On("CountActiveInSection", mock.Anything, tenantID, target.ID).Return(int64(1), nil)

	_, err := service.Transfer(context.Background(), tenantID, student.ID, target.ClassID, target.ID)

	assertDomainCode(t, err, "SECTION_FULL")
}

func TestEnrollmentService_Transfer(t *testing.T) {
	tenantID := uuid.New()
	service, studentRepo, _, classRepo := newEnrollmentTestService()

	student := newTestStudent(t, tenantID)
	target := newTestSection(t, tenantID, 30)
	studentRepo.On("FindByID", mock.Anything, tenantID, student.ID).Return(student, nil)
	classRepo.On("FindSectionByID", mock.Anything, tenantID, target.ID).Return(target, nil)
	studentRepo.On("CountActiveInSection", mock.Anything, tenantID, target.ID).Return(int64(5), nil)
	studentRepo.On("Save", mock.Anything, student).Return(nil)

	dto, err := service.Transfer(context.Background(), tenantID, student.ID, target.ClassID, target.ID)

	require.NoError(t, err)
	assert.Equal(t, target.ID, dto.SectionID)
	assert.Equal(t, target.ClassID, dto.ClassID)
}

func TestEnrollmentService_CrossTenantStudentLookup(t *testing.T) {
	tenantID := uuid.New()
	service, studentRepo, _, _ := newEnrollmentTestService()

	otherID := uuid.New()
	studentRepo.On("FindByID", mock.Anything, tenantID, otherID).Return(nil, shared.ErrNotFound)

	_, err := service.GetStudent(context.Background(), tenantID, otherID)

	assertDomainCode(t, err, "STUDENT_NOT_FOUND")
}

func TestEnrollmentService_LinkGuardian(t *testing.T) {
	tenantID := uuid.New()
	service, studentRepo, guardianRepo, _ := newEnrollmentTestService()

	student := newTestStudent(t, tenantID)
	guardian, err := academic.NewGuardian(tenantID, "Meera", "Iyer", "+91-98765-43210")
	require.NoError(t, err)

	studentRepo.On("FindByID", mock.Anything, tenantID, student.ID).Return(student, nil)
	guardianRepo.On("FindByID", mock.Anything, tenantID, guardian.ID).Return(guardian, nil)
	guardianRepo.On("Link", mock.Anything, mock.AnythingOfType("*academic.StudentGuardian")).Return(nil)

	err = service.LinkGuardian(context.Background(), tenantID, LinkGuardianInput{
		StudentID:        student.ID,
		GuardianID:       guardian.ID,
		Relationship:     "mother",
		EmergencyContact: true,
		PickupPermitted:  true,
	})

	require.NoError(t, err)
	guardianRepo.AssertExpectations(t)
}

func TestEnrollmentService_ListGuardians_MergesLinkMetadata(t *testing.T) {
	tenantID := uuid.New()
	service, _, guardianRepo, _ := newEnrollmentTestService()

	studentID := uuid.New()
	guardian, err := academic.NewGuardian(tenantID, "Meera", "Iyer", "+91-98765-43210")
	require.NoError(t, err)
	link, err := academic.NewStudentGuardian(tenantID, studentID, guardian.ID, "mother")
	require.NoError(t, err)
	link.EmergencyContact = true

	guardianRepo.On("FindByStudent", mock.Anything, tenantID, studentID).Return([]*academic.Guardian{guardian}, nil)
	guardianRepo.On("FindLinks", mock.Anything, tenantID, studentID).Return([]*academic.StudentGuardian{link}, nil)

	dtos, err := service.ListGuardians(context.Background(), tenantID, studentID)

	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "mother", dtos[0].Relationship)
	assert.True(t, dtos[0].EmergencyContact)
	assert.False(t, dtos[0].PickupPermitted)
}

func TestEnrollmentService_ChangeStudentStatus(t *testing.T) {
	tenantID := uuid.New()
	service, studentRepo, _, _ := newEnrollmentTestService()

	student := newTestStudent(t, tenantID)
	studentRepo.On("FindByID", mock.Anything, tenantID, student.ID).Return(student, nil)
	studentRepo.On("Save", mock.Anything, student).Return(nil)

	dto, err := service.ChangeStudentStatus(context.Background(), tenantID, student.ID, string(academic.StudentStatusGraduated))

	require.NoError(t, err)
	assert.Equal(t, string(academic.StudentStatusGraduated), dto.Status)
}
