package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/fees"
	"github.com/schoolhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormDiscountRepository implements DiscountRepository using GORM
type GormDiscountRepository struct {
	db *gorm.DB
}

// NewGormDiscountRepository creates a new GormDiscountRepository
func NewGormDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

// FindByIDForTenant finds a discount by ID within a tenant
func (r *GormDiscountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fees.Discount, error) {
	var discount fees.Discount
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&discount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &discount, nil
}

// FindAllForTenant finds all discounts of a tenant
func (r *GormDiscountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fees.Discount, error) {
	var discounts []fees.Discount
	query := r.db.WithContext(ctx).Model(&fees.Discount{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if discountType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", discountType)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("name ASC")

	if err := query.Find(&discounts).Error; err != nil {
		return nil, err
	}
	return discounts, nil
}

// Save creates or updates a discount
func (r *GormDiscountRepository) Save(ctx context.Context, discount *fees.Discount) error {
	return r.db.WithContext(ctx).Save(discount).Error
}

// DeleteForTenant deletes a discount within a tenant
func (r *GormDiscountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&fees.Discount{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormDiscountRepository implements DiscountRepository
var _ fees.DiscountRepository = (*GormDiscountRepository)(nil)
