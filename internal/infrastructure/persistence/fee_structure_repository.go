package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/fees"
	"github.com/schoolhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormFeeStructureRepository implements FeeStructureRepository using GORM
type GormFeeStructureRepository struct {
	db *gorm.DB
}

// NewGormFeeStructureRepository creates a new GormFeeStructureRepository
func NewGormFeeStructureRepository(db *gorm.DB) *GormFeeStructureRepository {
	return &GormFeeStructureRepository{db: db}
}

// FindByIDForTenant finds a fee structure by ID within a tenant
func (r *GormFeeStructureRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fees.FeeStructure, error) {
	var structure fees.FeeStructure
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&structure).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &structure, nil
}

// FindAllForTenant finds all fee structures of a tenant
func (r *GormFeeStructureRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fees.FeeStructure, error) {
	var structures []fees.FeeStructure
	query := r.db.WithContext(ctx).Model(&fees.FeeStructure{}).
		Where("tenant_id = ?", tenantID)

	for key, value := range filter.Filters {
		switch key {
		case "category_id":
			query = query.Where("category_id = ?", value)
		case "academic_year_id":
			query = query.Where("academic_year_id = ?", value)
		case "class_id":
			query = query.Where("class_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, FeeStructureSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	if err := query.Find(&structures).Error; err != nil {
		return nil, err
	}
	return structures, nil
}

// FindApplicable returns the structures of an academic year that apply
// to a class, including class-independent ones.
func (r *GormFeeStructureRepository) FindApplicable(ctx context.Context, tenantID, academicYearID, classID uuid.UUID) ([]fees.FeeStructure, error) {
	var structures []fees.FeeStructure
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND academic_year_id = ? AND (class_id IS NULL OR class_id = ?)",
			tenantID, academicYearID, classID).
		Order("created_at ASC").
		Find(&structures).Error; err != nil {
		return nil, err
	}
	return structures, nil
}

// Save creates or updates a fee structure
func (r *GormFeeStructureRepository) Save(ctx context.Context, structure *fees.FeeStructure) error {
	return r.db.WithContext(ctx).Save(structure).Error
}

// DeleteForTenant deletes a fee structure within a tenant
func (r *GormFeeStructureRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&fees.FeeStructure{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormFeeStructureRepository implements FeeStructureRepository
var _ fees.FeeStructureRepository = (*GormFeeStructureRepository)(nil)
