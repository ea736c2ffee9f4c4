package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/fees"
	"github.com/schoolhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormFeeCategoryRepository implements FeeCategoryRepository using GORM
type GormFeeCategoryRepository struct {
	db *gorm.DB
}

// NewGormFeeCategoryRepository creates a new GormFeeCategoryRepository
func NewGormFeeCategoryRepository(db *gorm.DB) *GormFeeCategoryRepository {
	return &GormFeeCategoryRepository{db: db}
}

// FindByIDForTenant finds a fee category by ID within a tenant
func (r *GormFeeCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fees.FeeCategory, error) {
	var category fees.FeeCategory
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAllForTenant finds all fee categories of a tenant
func (r *GormFeeCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fees.FeeCategory, error) {
	var categories []fees.FeeCategory
	query := r.db.WithContext(ctx).Model(&fees.FeeCategory{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("name ASC")

	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates a fee category
func (r *GormFeeCategoryRepository) Save(ctx context.Context, category *fees.FeeCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// DeleteForTenant deletes a fee category within a tenant
func (r *GormFeeCategoryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&fees.FeeCategory{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormFeeCategoryRepository implements FeeCategoryRepository
var _ fees.FeeCategoryRepository = (*GormFeeCategoryRepository)(nil)
