package academic

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/academic"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// ClassService manages classes and their sections
type ClassService struct {
	classRepo   academic.ClassRepository
	studentRepo academic.StudentRepository
	logger      *zap.Logger
}

// NewClassService creates a new class service
func NewClassService(
	classRepo academic.ClassRepository,
	studentRepo academic.StudentRepository,
	logger *zap.Logger,
) *ClassService {
	return &ClassService{
		classRepo:   classRepo,
		studentRepo: studentRepo,
		logger:      logger,
	}
}

// CreateClassInput contains input for creating a class
type CreateClassInput struct {
	Name         string
	NumericLevel int
}

// CreateSectionInput contains input for creating a section
type CreateSectionInput struct {
	ClassID        uuid.UUID
	AcademicYearID uuid.UUID
	Name           string
	Capacity       int
}

// CreateClass creates a class grade
func (s *ClassService) CreateClass(ctx context.Context, tenantID uuid.UUID, input CreateClassInput) (*ClassDTO, error) {
	class, err := academic.NewSchoolClass(tenantID, input.Name, input.NumericLevel)
	if err != nil {
		return nil, err
	}
	if err := s.classRepo.Save(ctx, class); err != nil {
		s.logger.Error("Failed to save class", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create class")
	}
	return toClassDTO(class), nil
}

// GetClass retrieves a class with its sections for a year
func (s *ClassService) GetClass(ctx context.Context, tenantID, classID, academicYearID uuid.UUID) (*ClassDTO, error) {
	class, err := s.findClass(ctx, tenantID, classID)
	if err != nil {
		return nil, err
	}
	dto := toClassDTO(class)

	if academicYearID != uuid.Nil {
		sections, err := s.classRepo.FindSections(ctx, tenantID, classID, academicYearID)
		if err != nil {
			s.logger.Error("Failed to list sections", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list sections")
		}
		dto.Sections = make([]SectionDTO, 0, len(sections))
		for _, section := range sections {
			enrolled, err := s.studentRepo.CountActiveInSection(ctx, tenantID, section.ID)
			if err != nil {
				s.logger.Error("Failed to count section enrollment", zap.Error(err))
				return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count enrollment")
			}
			dto.Sections = append(dto.Sections, *toSectionDTO(section, enrolled))
		}
	}
	return dto, nil
}

// ListClasses retrieves a tenant's classes
func (s *ClassService) ListClasses(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]ClassDTO, error) {
	classes, err := s.classRepo.FindAll(ctx, tenantID, filter.ToSharedFilter())
	if err != nil {
		s.logger.Error("Failed to list classes", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list classes")
	}
	dtos := make([]ClassDTO, len(classes))
	for i, c := range classes {
		dtos[i] = *toClassDTO(c)
	}
	return dtos, nil
}

// AssignClassTeacher sets the class teacher
func (s *ClassService) AssignClassTeacher(ctx context.Context, tenantID, classID, teacherID uuid.UUID) (*ClassDTO, error) {
	class, err := s.findClass(ctx, tenantID, classID)
	if err != nil {
		return nil, err
	}
	class.AssignClassTeacher(teacherID)
	if err := s.classRepo.Save(ctx, class); err != nil {
		s.logger.Error("Failed to assign class teacher", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to assign class teacher")
	}
	return toClassDTO(class), nil
}

// DeleteClass removes a class with no enrolled students
func (s *ClassService) DeleteClass(ctx context.Context, tenantID, classID uuid.UUID) error {
	if _, err := s.findClass(ctx, tenantID, classID); err != nil {
		return err
	}
	if err := s.classRepo.Delete(ctx, tenantID, classID); err != nil {
		s.logger.Error("Failed to delete class", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete class")
	}
	return nil
}

// CreateSection creates a section of a class for an academic year
func (s *ClassService) CreateSection(ctx context.Context, tenantID uuid.UUID, input CreateSectionInput) (*SectionDTO, error) {
	if _, err := s.findClass(ctx, tenantID, input.ClassID); err != nil {
		return nil, err
	}
	section, err := academic.NewSection(tenantID, input.ClassID, input.AcademicYearID, input.Name, input.Capacity)
	if err != nil {
		return nil, err
	}
	if err := s.classRepo.SaveSection(ctx, section); err != nil {
		s.logger.Error("Failed to save section", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create section")
	}
	return toSectionDTO(section, 0), nil
}

// ResizeSection changes a section's capacity. Shrinking below current
// enrollment is rejected rather than stranding students.
func (s *ClassService) ResizeSection(ctx context.Context, tenantID, sectionID uuid.UUID, capacity int) (*SectionDTO, error) {
	section, err := s.findSection(ctx, tenantID, sectionID)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.studentRepo.CountActiveInSection(ctx, tenantID, sectionID)
	if err != nil {
		s.logger.Error("Failed to count section enrollment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count enrollment")
	}
	if int64(capacity) < enrolled {
		return nil, shared.NewDomainError("CAPACITY_BELOW_ENROLLMENT", "Capacity cannot be reduced below current enrollment")
	}
	if err := section.Resize(capacity); err != nil {
		return nil, err
	}
	if err := s.classRepo.SaveSection(ctx, section); err != nil {
		s.logger.Error("Failed to resize section", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to resize section")
	}
	return toSectionDTO(section, enrolled), nil
}

// GetSection retrieves one section with seat availability
func (s *ClassService) GetSection(ctx context.Context, tenantID, sectionID uuid.UUID) (*SectionDTO, error) {
	section, err := s.findSection(ctx, tenantID, sectionID)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.studentRepo.CountActiveInSection(ctx, tenantID, sectionID)
	if err != nil {
		s.logger.Error("Failed to count section enrollment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count enrollment")
	}
	return toSectionDTO(section, enrolled), nil
}

func (s *ClassService) findClass(ctx context.Context, tenantID, id uuid.UUID) (*academic.SchoolClass, error) {
	class, err := s.classRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CLASS_NOT_FOUND", "Class not found")
		}
		s.logger.Error("Failed to find class", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find class")
	}
	return class, nil
}

func (s *ClassService) findSection(ctx context.Context, tenantID, id uuid.UUID) (*academic.Section, error) {
	section, err := s.classRepo.FindSectionByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SECTION_NOT_FOUND", "Section not found")
		}
		s.logger.Error("Failed to find section", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find section")
	}
	return section, nil
}
