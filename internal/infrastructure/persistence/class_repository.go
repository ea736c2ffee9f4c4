package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/academic"
	"github.com/schoolhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormClassRepository implements ClassRepository using GORM. Classes and
// their sections share one repository because a section never outlives
// its class.
type GormClassRepository struct {
	db *gorm.DB
}

// NewGormClassRepository creates a new GormClassRepository
func NewGormClassRepository(db *gorm.DB) *GormClassRepository {
	return &GormClassRepository{db: db}
}

// FindByID finds a class by ID within a tenant
func (r *GormClassRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*academic.SchoolClass, error) {
	var class academic.SchoolClass
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&class).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &class, nil
}

// FindAll finds all classes of a tenant ordered by level
func (r *GormClassRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*academic.SchoolClass, error) {
	var classes []*academic.SchoolClass
	query := r.db.WithContext(ctx).Model(&academic.SchoolClass{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, ClassSortFields, "numeric_level")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("numeric_level ASC, name ASC")
	}

	if err := query.Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

// Count counts classes of a tenant
func (r *GormClassRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&academic.SchoolClass{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a class
func (r *GormClassRepository) Save(ctx context.Context, class *academic.SchoolClass) error {
	return r.db.WithContext(ctx).Save(class).Error
}

// Delete deletes a class within a tenant
func (r *GormClassRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&academic.SchoolClass{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindSectionByID finds a section by ID within a tenant
func (r *GormClassRepository) FindSectionByID(ctx context.Context, tenantID, id uuid.UUID) (*academic.Section, error) {
	var section academic.Section
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&section).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &section, nil
}

// FindSections finds the sections of a class for an academic year
func (r *GormClassRepository) FindSections(ctx context.Context, tenantID, classID, academicYearID uuid.UUID) ([]*academic.Section, error) {
	var sections []*academic.Section
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND class_id = ? AND academic_year_id = ?", tenantID, classID, academicYearID).
		Order("name ASC").
		Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

// SaveSection creates or updates a section
func (r *GormClassRepository) SaveSection(ctx context.Context, section *academic.Section) error {
	return r.db.WithContext(ctx).Save(section).Error
}

// DeleteSection deletes a section within a tenant
func (r *GormClassRepository) DeleteSection(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&academic.Section{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormClassRepository implements ClassRepository
var _ academic.ClassRepository = (*GormClassRepository)(nil)
