package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/academic"
	"github.com/schoolhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAcademicYearRepository implements AcademicYearRepository using GORM
type GormAcademicYearRepository struct {
	db *gorm.DB
}

// NewGormAcademicYearRepository creates a new GormAcademicYearRepository
func NewGormAcademicYearRepository(db *gorm.DB) *GormAcademicYearRepository {
	return &GormAcademicYearRepository{db: db}
}

// FindByID finds an academic year by ID within a tenant
func (r *GormAcademicYearRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*academic.AcademicYear, error) {
	var year academic.AcademicYear
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&year).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &year, nil
}

// FindCurrent finds the tenant's current academic year
func (r *GormAcademicYearRepository) FindCurrent(ctx context.Context, tenantID uuid.UUID) (*academic.AcademicYear, error) {
	var year academic.AcademicYear
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_current = ?", tenantID, true).
		First(&year).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &year, nil
}

// FindAll finds all academic years of a tenant
func (r *GormAcademicYearRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*academic.AcademicYear, error) {
	var years []*academic.AcademicYear
	query := r.db.WithContext(ctx).Model(&academic.AcademicYear{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, AcademicYearSortFields, "start_date")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("start_date DESC")
	}

	if err := query.Find(&years).Error; err != nil {
		return nil, err
	}
	return years, nil
}

// Count counts academic years of a tenant
func (r *GormAcademicYearRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&academic.AcademicYear{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks if an academic year with the given name exists in the tenant
func (r *GormAcademicYearRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&academic.AcademicYear{}).
		Where("tenant_id = ? AND name = ?", tenantID, name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an academic year
func (r *GormAcademicYearRepository) Save(ctx context.Context, year *academic.AcademicYear) error {
	return r.db.WithContext(ctx).Save(year).Error
}

// SetCurrent flips the current flag to the given year inside one
// transaction, so a tenant never observes zero or two current years.
// Becoming current also activates the year, mirroring MarkCurrent on
// the aggregate.
func (r *GormAcademicYearRepository) SetCurrent(ctx context.Context, tenantID, yearID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&academic.AcademicYear{}).
			Where("tenant_id = ? AND is_current = ?", tenantID, true).
			Update("is_current", false).Error; err != nil {
			return err
		}

		result := tx.Model(&academic.AcademicYear{}).
			Where("tenant_id = ? AND id = ?", tenantID, yearID).
			Updates(map[string]interface{}{
				"is_current": true,
				"status":     academic.AcademicYearStatusActive,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Delete deletes an academic year within a tenant
func (r *GormAcademicYearRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&academic.AcademicYear{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAcademicYearRepository implements AcademicYearRepository
var _ academic.AcademicYearRepository = (*GormAcademicYearRepository)(nil)
