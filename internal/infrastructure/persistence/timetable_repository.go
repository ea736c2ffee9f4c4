package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/academic"
	"github.com/schoolhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTimetableRepository implements TimetableRepository using GORM
type GormTimetableRepository struct {
	db *gorm.DB
}

// NewGormTimetableRepository creates a new GormTimetableRepository
func NewGormTimetableRepository(db *gorm.DB) *GormTimetableRepository {
	return &GormTimetableRepository{db: db}
}

// FindByID finds a timetable entry by ID within a tenant
func (r *GormTimetableRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*academic.TimetableEntry, error) {
	var entry academic.TimetableEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindBySection finds the timetable of a section for an academic year,
// ordered for display
func (r *GormTimetableRepository) FindBySection(ctx context.Context, tenantID, sectionID, academicYearID uuid.UUID) ([]*academic.TimetableEntry, error) {
	var entries []*academic.TimetableEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND section_id = ? AND academic_year_id = ?",
			tenantID, sectionID, academicYearID).
		Order("weekday ASC, slot_number ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByTeacher finds all entries assigned to a teacher for an academic year
func (r *GormTimetableRepository) FindByTeacher(ctx context.Context, tenantID, teacherID, academicYearID uuid.UUID) ([]*academic.TimetableEntry, error) {
	var entries []*academic.TimetableEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND teacher_id = ? AND academic_year_id = ?",
			tenantID, teacherID, academicYearID).
		Order("weekday ASC, slot_number ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Save creates or updates a timetable entry
func (r *GormTimetableRepository) Save(ctx context.Context, entry *academic.TimetableEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Delete deletes a timetable entry within a tenant
func (r *GormTimetableRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&academic.TimetableEntry{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTimetableRepository implements TimetableRepository
var _ academic.TimetableRepository = (*GormTimetableRepository)(nil)
