package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/fees"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormAllocationRepository implements AllocationRepository using GORM
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// FindByIDForTenant finds an allocation by ID within a tenant
func (r *GormAllocationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fees.StudentFeeAllocation, error) {
	var allocation fees.StudentFeeAllocation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&allocation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &allocation, nil
}

// FindByStudent finds all allocations of a student
func (r *GormAllocationRepository) FindByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]fees.StudentFeeAllocation, error) {
	var allocations []fees.StudentFeeAllocation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND student_id = ?", tenantID, studentID).
		Order("created_at ASC").
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// FindAllForTenant finds all allocations of a tenant matching the filter
func (r *GormAllocationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fees.StudentFeeAllocation, error) {
	var allocations []fees.StudentFeeAllocation
	query := r.db.WithContext(ctx).Model(&fees.StudentFeeAllocation{}).
		Where("tenant_id = ?", tenantID)

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "student_id":
			query = query.Where("student_id = ?", value)
		case "academic_year_id":
			query = query.Where("academic_year_id = ?", value)
		case "overdue_at":
			query = query.Where("status IN ? AND due_date IS NOT NULL AND due_date < ?",
				[]fees.AllocationStatus{fees.AllocationStatusPending, fees.AllocationStatusPartial}, value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, AllocationSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	if err := query.Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// ExistsForStructure reports whether the student is already assessed
// against the structure
func (r *GormAllocationRepository) ExistsForStructure(ctx context.Context, tenantID, studentID, structureID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&fees.StudentFeeAllocation{}).
		Where("tenant_id = ? AND student_id = ? AND fee_structure_id = ?", tenantID, studentID, structureID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an allocation
func (r *GormAllocationRepository) Save(ctx context.Context, allocation *fees.StudentFeeAllocation) error {
	return r.db.WithContext(ctx).Save(allocation).Error
}

// SummaryForStudent aggregates the student's ledger position. Waived
// allocations contribute their counts but no money: their net amount
// was zeroed when the waiver was applied.
func (r *GormAllocationRepository) SummaryForStudent(ctx context.Context, tenantID, studentID uuid.UUID) (*fees.StudentFeeSummary, error) {
	var totals struct {
		TotalNet  decimal.Decimal
		TotalPaid decimal.Decimal
		TotalDue  decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&fees.StudentFeeAllocation{}).
		Select("COALESCE(SUM(net_amount), 0) as total_net, COALESCE(SUM(paid_amount), 0) as total_paid, COALESCE(SUM(due_amount), 0) as total_due").
		Where("tenant_id = ? AND student_id = ?", tenantID, studentID).
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Status fees.AllocationStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&fees.StudentFeeAllocation{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ? AND student_id = ?", tenantID, studentID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	summary := &fees.StudentFeeSummary{
		StudentID: studentID,
		TotalNet:  totals.TotalNet.StringFixed(2),
		TotalPaid: totals.TotalPaid.StringFixed(2),
		TotalDue:  totals.TotalDue.StringFixed(2),
	}
	for _, row := range rows {
		summary.Allocations += row.Count
		switch row.Status {
		case fees.AllocationStatusPending:
			summary.Pending += row.Count
		case fees.AllocationStatusPartial:
			summary.Partial += row.Count
		case fees.AllocationStatusPaid:
			summary.Paid += row.Count
		case fees.AllocationStatusWaived:
			summary.Waived += row.Count
		}
	}
	return summary, nil
}

// Ensure GormAllocationRepository implements AllocationRepository
var _ fees.AllocationRepository = (*GormAllocationRepository)(nil)
