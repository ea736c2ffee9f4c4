package academic

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/academic"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// TimetableService manages the weekly schedule of each section.
type TimetableService struct {
	timetableRepo academic.TimetableRepository
	classRepo     academic.ClassRepository
	logger        *zap.Logger
}

// NewTimetableService creates a new timetable service
func NewTimetableService(
	timetableRepo academic.TimetableRepository,
	classRepo academic.ClassRepository,
	logger *zap.Logger,
) *TimetableService {
	return &TimetableService{
		timetableRepo: timetableRepo,
		classRepo:     classRepo,
		logger:        logger,
	}
}

// CreateEntryInput contains input for creating a timetable slot
type CreateEntryInput struct {
	SectionID      uuid.UUID
	AcademicYearID uuid.UUID
	Weekday        int
	SlotNumber     int
	Subject        string
	TeacherID      *uuid.UUID
	StartTime      string
	EndTime        string
	Room           string
}

// CreateEntry adds a slot to a section's weekly schedule. When a teacher
// is assigned, the slot must not overlap any other slot the teacher
// already covers that day.
func (s *TimetableService) CreateEntry(ctx context.Context, tenantID uuid.UUID, input CreateEntryInput) (*TimetableEntryDTO, error) {
	if _, err := s.classRepo.FindSectionByID(ctx, tenantID, input.SectionID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SECTION_NOT_FOUND", "Section not found")
		}
		s.logger.Error("Failed to find section", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find section")
	}

	entry, err := academic.NewTimetableEntry(tenantID, input.SectionID, input.AcademicYearID,
		academic.Weekday(input.Weekday), input.SlotNumber, input.Subject, input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}
	if input.Room != "" {
		entry.SetRoom(input.Room)
	}
	if input.TeacherID != nil {
		if err := s.assignTeacher(ctx, tenantID, entry, *input.TeacherID); err != nil {
			return nil, err
		}
	}

	if err := s.timetableRepo.Save(ctx, entry); err != nil {
		s.logger.Error("Failed to save timetable entry", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save timetable entry")
	}

	s.logger.Info("Timetable entry created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("section_id", input.SectionID.String()),
		zap.Int("weekday", input.Weekday),
		zap.Int("slot", input.SlotNumber))

	return toTimetableEntryDTO(entry), nil
}

// GetForSection returns a section's weekly schedule
func (s *TimetableService) GetForSection(ctx context.Context, tenantID, sectionID, academicYearID uuid.UUID) ([]TimetableEntryDTO, error) {
	entries, err := s.timetableRepo.FindBySection(ctx, tenantID, sectionID, academicYearID)
	if err != nil {
		s.logger.Error("Failed to load section timetable", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load section timetable")
	}
	return toTimetableEntryDTOs(entries), nil
}

// GetForTeacher returns every slot a teacher covers in an academic year
func (s *TimetableService) GetForTeacher(ctx context.Context, tenantID, teacherID, academicYearID uuid.UUID) ([]TimetableEntryDTO, error) {
	entries, err := s.timetableRepo.FindByTeacher(ctx, tenantID, teacherID, academicYearID)
	if err != nil {
		s.logger.Error("Failed to load teacher timetable", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load teacher timetable")
	}
	return toTimetableEntryDTOs(entries), nil
}

// AssignTeacher staffs an existing slot, checking for double booking
func (s *TimetableService) AssignTeacher(ctx context.Context, tenantID, entryID, teacherID uuid.UUID) (*TimetableEntryDTO, error) {
	entry, err := s.findEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.assignTeacher(ctx, tenantID, entry, teacherID); err != nil {
		return nil, err
	}
	if err := s.timetableRepo.Save(ctx, entry); err != nil {
		s.logger.Error("Failed to assign teacher", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to assign teacher")
	}
	return toTimetableEntryDTO(entry), nil
}

// ClearTeacher unstaffs a slot
func (s *TimetableService) ClearTeacher(ctx context.Context, tenantID, entryID uuid.UUID) (*TimetableEntryDTO, error) {
	entry, err := s.findEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	entry.ClearTeacher()
	if err := s.timetableRepo.Save(ctx, entry); err != nil {
		s.logger.Error("Failed to clear teacher", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to clear teacher")
	}
	return toTimetableEntryDTO(entry), nil
}

// DeleteEntry removes a slot from the schedule
func (s *TimetableService) DeleteEntry(ctx context.Context, tenantID, entryID uuid.UUID) error {
	if _, err := s.findEntry(ctx, tenantID, entryID); err != nil {
		return err
	}
	if err := s.timetableRepo.Delete(ctx, tenantID, entryID); err != nil {
		s.logger.Error("Failed to delete timetable entry", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete timetable entry")
	}
	return nil
}

// assignTeacher sets the teacher on the entry after verifying the
// teacher is free at that time.
func (s *TimetableService) assignTeacher(ctx context.Context, tenantID uuid.UUID, entry *academic.TimetableEntry, teacherID uuid.UUID) error {
	if err := entry.AssignTeacher(teacherID); err != nil {
		return err
	}
	existing, err := s.timetableRepo.FindByTeacher(ctx, tenantID, teacherID, entry.AcademicYearID)
	if err != nil {
		s.logger.Error("Failed to load teacher schedule", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to load teacher schedule")
	}
	for _, other := range existing {
		if other.ID == entry.ID {
			continue
		}
		if entry.OverlapsTeacher(other) {
			return shared.NewDomainError("TEACHER_DOUBLE_BOOKED", "Teacher is already scheduled at that time")
		}
	}
	return nil
}

func (s *TimetableService) findEntry(ctx context.Context, tenantID, id uuid.UUID) (*academic.TimetableEntry, error) {
	entry, err := s.timetableRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ENTRY_NOT_FOUND", "Timetable entry not found")
		}
		s.logger.Error("Failed to find timetable entry", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find timetable entry")
	}
	return entry, nil
}

func toTimetableEntryDTOs(entries []*academic.TimetableEntry) []TimetableEntryDTO {
	dtos := make([]TimetableEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = *toTimetableEntryDTO(e)
	}
	return dtos
}
