package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/fees"
	"github.com/schoolhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM.
// Payments are read-only here: inserts go through the ledger so a
// payment row never exists without its allocation update. Voided rows
// stay in the table; their receipt numbers are never reused.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByIDForTenant finds a payment by ID within a tenant
func (r *GormPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fees.FeePayment, error) {
	var payment fees.FeePayment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ? AND deleted_at IS NULL", tenantID, id).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByReceiptNumber finds a payment by receipt number within a tenant
func (r *GormPaymentRepository) FindByReceiptNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*fees.FeePayment, error) {
	var payment fees.FeePayment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND receipt_number = ? AND deleted_at IS NULL", tenantID, receiptNumber).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByAllocation finds all live payments against an allocation
func (r *GormPaymentRepository) FindByAllocation(ctx context.Context, tenantID, allocationID uuid.UUID) ([]fees.FeePayment, error) {
	var payments []fees.FeePayment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND allocation_id = ? AND deleted_at IS NULL", tenantID, allocationID).
		Order("paid_at ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindAllForTenant finds all live payments of a tenant matching the filter
func (r *GormPaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fees.FeePayment, error) {
	var payments []fees.FeePayment
	query := r.db.WithContext(ctx).Model(&fees.FeePayment{}).
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID)

	if filter.Search != "" {
		query = query.Where("receipt_number ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "student_id":
			query = query.Where("student_id = ?", value)
		case "method":
			query = query.Where("method = ?", value)
		case "paid_after":
			query = query.Where("paid_at >= ?", value)
		case "paid_before":
			query = query.Where("paid_at <= ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, PaymentSortFields, "paid_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("paid_at DESC")
	}

	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// SoftDelete voids a payment. The row is kept; its receipt number
// remains burned.
func (r *GormPaymentRepository) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&fees.FeePayment{}).
		Where("tenant_id = ? AND id = ? AND deleted_at IS NULL", tenantID, id).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ fees.PaymentRepository = (*GormPaymentRepository)(nil)
