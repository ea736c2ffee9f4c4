package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/academic"
	"github.com/schoolhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormLeaveRequestRepository implements LeaveRequestRepository using GORM
type GormLeaveRequestRepository struct {
	db *gorm.DB
}

// NewGormLeaveRequestRepository creates a new GormLeaveRequestRepository
func NewGormLeaveRequestRepository(db *gorm.DB) *GormLeaveRequestRepository {
	return &GormLeaveRequestRepository{db: db}
}

// FindByID finds a leave request by ID within a tenant
func (r *GormLeaveRequestRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*academic.LeaveRequest, error) {
	var request academic.LeaveRequest
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByRequester finds leave requests filed by a requester
func (r *GormLeaveRequestRepository) FindByRequester(ctx context.Context, tenantID, requesterID uuid.UUID, filter shared.Filter) ([]*academic.LeaveRequest, error) {
	var requests []*academic.LeaveRequest
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&academic.LeaveRequest{}).
			Where("tenant_id = ? AND requester_id = ?", tenantID, requesterID),
		filter,
	)

	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindByStatus finds leave requests in a given status for a tenant
func (r *GormLeaveRequestRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status academic.LeaveStatus, filter shared.Filter) ([]*academic.LeaveRequest, error) {
	var requests []*academic.LeaveRequest
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&academic.LeaveRequest{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)

	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Count counts leave requests of a tenant
func (r *GormLeaveRequestRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&academic.LeaveRequest{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a leave request
func (r *GormLeaveRequestRepository) Save(ctx context.Context, request *academic.LeaveRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// applyFilter applies filter options to the query
func (r *GormLeaveRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if from, ok := filter.Filters["from_date"]; ok {
		query = query.Where("to_date >= ?", from)
	}
	if to, ok := filter.Filters["to_date"]; ok {
		query = query.Where("from_date <= ?", to)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, LeaveRequestSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// Ensure GormLeaveRequestRepository implements LeaveRequestRepository
var _ academic.LeaveRequestRepository = (*GormLeaveRequestRepository)(nil)
