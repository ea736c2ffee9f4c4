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

// EnrollmentService manages student profiles, guardians and the links
// between them.
type EnrollmentService struct {
	studentRepo  academic.StudentRepository
	guardianRepo academic.GuardianRepository
	classRepo    academic.ClassRepository
	logger       *zap.Logger
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	studentRepo academic.StudentRepository,
	guardianRepo academic.GuardianRepository,
	classRepo academic.ClassRepository,
	logger *zap.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		studentRepo:  studentRepo,
		guardianRepo: guardianRepo,
		classRepo:    classRepo,
		logger:       logger,
	}
}

// EnrollStudentInput contains input for enrolling a student
type EnrollStudentInput struct {
	UserID         uuid.UUID
	ClassID        uuid.UUID
	SectionID      uuid.UUID
	AcademicYearID uuid.UUID
	AdmissionNo    string
	FirstName      string
	LastName       string
	DateOfBirth    *time.Time
	Gender         string
}

// LinkGuardianInput contains input for linking a guardian to a student
type LinkGuardianInput struct {
	StudentID        uuid.UUID
	GuardianID       uuid.UUID
	Relationship     string
	EmergencyContact bool
	PickupPermitted  bool
}

// CreateGuardianInput contains input for creating a guardian
type CreateGuardianInput struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Address   string
}

// Enroll enrolls a student into a section, enforcing the admission
// number's uniqueness and the section's capacity.
func (s *EnrollmentService) Enroll(ctx context.Context, tenantID uuid.UUID, input EnrollStudentInput) (*StudentDTO, error) {
	exists, err := s.studentRepo.ExistsByAdmissionNo(ctx, tenantID, input.AdmissionNo)
	if err != nil {
		s.logger.Error("Failed to check admission number", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check admission number")
	}
	if exists {
		return nil, shared.NewDomainError("ADMISSION_NO_EXISTS", "Admission number is already in use")
	}

	section, err := s.classRepo.FindSectionByID(ctx, tenantID, input.SectionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SECTION_NOT_FOUND", "Section not found")
		}
		s.logger.Error("Failed to find section", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find section")
	}
	enrolled, err := s.studentRepo.CountActiveInSection(ctx, tenantID, input.SectionID)
	if err != nil {
		s.logger.Error("Failed to count section enrollment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count enrollment")
	}
	if !section.HasSeat(enrolled) {
		return nil, shared.NewDomainError("SECTION_FULL", "Section has no available seats")
	}

	student, err := academic.NewStudent(tenantID, input.UserID, input.ClassID, input.SectionID, input.AcademicYearID,
		input.AdmissionNo, input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}
	student.DateOfBirth = input.DateOfBirth
	student.Gender = input.Gender

	if err := s.studentRepo.Save(ctx, student); err != nil {
		s.logger.Error("Failed to save student", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to enroll student")
	}

	s.logger.Info("Student enrolled",
		zap.String("tenant_id", tenantID.String()),
		zap.String("student_id", student.ID.String()),
		zap.String("admission_no", student.AdmissionNo))

	return toStudentDTO(student), nil
}

// GetStudent retrieves a student profile
func (s *EnrollmentService) GetStudent(ctx context.Context, tenantID, id uuid.UUID) (*StudentDTO, error) {
	student, err := s.findStudent(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toStudentDTO(student), nil
}

// ListStudents retrieves a paginated list of students
func (s *EnrollmentService) ListStudents(ctx context.Context, tenantID uuid.UUID, filter ListFilter) (*shared.Paginated[StudentDTO], error) {
	sharedFilter := filter.ToSharedFilter()
	students, err := s.studentRepo.FindAll(ctx, tenantID, sharedFilter)
	if err != nil {
		s.logger.Error("Failed to list students", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list students")
	}
	total, err := s.studentRepo.Count(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to count students", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count students")
	}
	dtos := make([]StudentDTO, len(students))
	for i, st := range students {
		dtos[i] = *toStudentDTO(st)
	}
	result := shared.NewPaginated(dtos, total, sharedFilter.Page, sharedFilter.PageSize)
	return &result, nil
}

// ListBySection retrieves a section's roster
func (s *EnrollmentService) ListBySection(ctx context.Context, tenantID, sectionID uuid.UUID) ([]StudentDTO, error) {
	students, err := s.studentRepo.FindBySection(ctx, tenantID, sectionID)
	if err != nil {
		s.logger.Error("Failed to list section roster", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list section roster")
	}
	dtos := make([]StudentDTO, len(students))
	for i, st := range students {
		dtos[i] = *toStudentDTO(st)
	}
	return dtos, nil
}

// Transfer moves a student to another section, enforcing capacity there
func (s *EnrollmentService) Transfer(ctx context.Context, tenantID, studentID, classID, sectionID uuid.UUID) (*StudentDTO, error) {
	student, err := s.findStudent(ctx, tenantID, studentID)
	if err != nil {
		return nil, err
	}

	section, err := s.classRepo.FindSectionByID(ctx, tenantID, sectionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SECTION_NOT_FOUND", "Section not found")
		}
		s.logger.Error("Failed to find section", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find section")
	}
	enrolled, err := s.studentRepo.CountActiveInSection(ctx, tenantID, sectionID)
	if err != nil {
		s.logger.Error("Failed to count section enrollment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count enrollment")
	}
	if !section.HasSeat(enrolled) {
		return nil, shared.NewDomainError("SECTION_FULL", "Target section has no available seats")
	}

	if err := student.MoveToSection(classID, sectionID); err != nil {
		return nil, err
	}
	if err := s.studentRepo.Save(ctx, student); err != nil {
		s.logger.Error("Failed to transfer student", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to transfer student")
	}
	return toStudentDTO(student), nil
}

// ChangeStudentStatus transitions a student's enrollment status
func (s *EnrollmentService) ChangeStudentStatus(ctx context.Context, tenantID, studentID uuid.UUID, status string) (*StudentDTO, error) {
	student, err := s.findStudent(ctx, tenantID, studentID)
	if err != nil {
		return nil, err
	}
	if err := student.ChangeStatus(academic.StudentStatus(status)); err != nil {
		return nil, err
	}
	if err := s.studentRepo.Save(ctx, student); err != nil {
		s.logger.Error("Failed to change student status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to change student status")
	}
	return toStudentDTO(student), nil
}

// CreateGuardian registers a guardian in the tenant
func (s *EnrollmentService) CreateGuardian(ctx context.Context, tenantID uuid.UUID, input CreateGuardianInput) (*GuardianDTO, error) {
	guardian, err := academic.NewGuardian(tenantID, input.FirstName, input.LastName, input.Phone)
	if err != nil {
		return nil, err
	}
	guardian.Email = input.Email
	guardian.Address = input.Address

	if err := s.guardianRepo.Save(ctx, guardian); err != nil {
		s.logger.Error("Failed to save guardian", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create guardian")
	}
	return toGuardianDTO(guardian), nil
}

// LinkGuardian links a guardian to a student with relationship metadata
func (s *EnrollmentService) LinkGuardian(ctx context.Context, tenantID uuid.UUID, input LinkGuardianInput) error {
	if _, err := s.findStudent(ctx, tenantID, input.StudentID); err != nil {
		return err
	}
	if _, err := s.guardianRepo.FindByID(ctx, tenantID, input.GuardianID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("GUARDIAN_NOT_FOUND", "Guardian not found")
		}
		s.logger.Error("Failed to find guardian", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find guardian")
	}

	link, err := academic.NewStudentGuardian(tenantID, input.StudentID, input.GuardianID, input.Relationship)
	if err != nil {
		return err
	}
	link.EmergencyContact = input.EmergencyContact
	link.PickupPermitted = input.PickupPermitted

	if err := s.guardianRepo.Link(ctx, link); err != nil {
		s.logger.Error("Failed to link guardian", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to link guardian")
	}
	return nil
}

// UnlinkGuardian removes the link between a student and a guardian
func (s *EnrollmentService) UnlinkGuardian(ctx context.Context, tenantID, studentID, guardianID uuid.UUID) error {
	if err := s.guardianRepo.Unlink(ctx, tenantID, studentID, guardianID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("LINK_NOT_FOUND", "Guardian link not found")
		}
		s.logger.Error("Failed to unlink guardian", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to unlink guardian")
	}
	return nil
}

// ListGuardians lists a student's guardians with link metadata
func (s *EnrollmentService) ListGuardians(ctx context.Context, tenantID, studentID uuid.UUID) ([]GuardianDTO, error) {
	guardians, err := s.guardianRepo.FindByStudent(ctx, tenantID, studentID)
	if err != nil {
		s.logger.Error("Failed to list guardians", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list guardians")
	}
	links, err := s.guardianRepo.FindLinks(ctx, tenantID, studentID)
	if err != nil {
		s.logger.Error("Failed to load guardian links", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load guardian links")
	}
	byGuardian := make(map[uuid.UUID]*academic.StudentGuardian, len(links))
	for _, link := range links {
		byGuardian[link.GuardianID] = link
	}

	dtos := make([]GuardianDTO, len(guardians))
	for i, g := range guardians {
		dto := toGuardianDTO(g)
		if link, ok := byGuardian[g.ID]; ok {
			dto.Relationship = link.Relationship
			dto.EmergencyContact = link.EmergencyContact
			dto.PickupPermitted = link.PickupPermitted
		}
		dtos[i] = *dto
	}
	return dtos, nil
}

func (s *EnrollmentService) findStudent(ctx context.Context, tenantID, id uuid.UUID) (*academic.Student, error) {
	student, err := s.studentRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STUDENT_NOT_FOUND", "Student not found")
		}
		s.logger.Error("Failed to find student", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find student")
	}
	return student, nil
}
