package academic

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/academic"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// LeaveService files and reviews leave requests.
type LeaveService struct {
	leaveRepo academic.LeaveRequestRepository
	logger    *zap.Logger
}

// NewLeaveService creates a new leave service
func NewLeaveService(leaveRepo academic.LeaveRequestRepository, logger *zap.Logger) *LeaveService {
	return &LeaveService{leaveRepo: leaveRepo, logger: logger}
}

// FileLeaveInput contains input for filing a leave request
type FileLeaveInput struct {
	RequesterType string
	RequesterID   uuid.UUID
	FromDate      time.Time
	ToDate        time.Time
	Reason        string
}

// ReviewLeaveInput contains input for deciding a leave request
type ReviewLeaveInput struct {
	RequestID  uuid.UUID
	ReviewerID uuid.UUID
	Approve    bool
	Remarks    string
}

// File files a new leave request in pending state
func (s *LeaveService) File(ctx context.Context, tenantID uuid.UUID, input FileLeaveInput) (*LeaveRequestDTO, error) {
	request, err := academic.NewLeaveRequest(tenantID, input.RequesterID,
		academic.RequesterType(input.RequesterType), input.FromDate, input.ToDate, input.Reason)
	if err != nil {
		return nil, err
	}
	if err := s.leaveRepo.Save(ctx, request); err != nil {
		s.logger.Error("Failed to save leave request", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to file leave request")
	}

	s.logger.Info("Leave request filed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("request_id", request.ID.String()),
		zap.String("requester_id", input.RequesterID.String()))

	return toLeaveRequestDTO(request), nil
}

// Get retrieves a leave request
func (s *LeaveService) Get(ctx context.Context, tenantID, id uuid.UUID) (*LeaveRequestDTO, error) {
	request, err := s.findRequest(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toLeaveRequestDTO(request), nil
}

// ListByRequester lists the requests filed for one requester
func (s *LeaveService) ListByRequester(ctx context.Context, tenantID, requesterID uuid.UUID, filter ListFilter) ([]LeaveRequestDTO, error) {
	requests, err := s.leaveRepo.FindByRequester(ctx, tenantID, requesterID, filter.ToSharedFilter())
	if err != nil {
		s.logger.Error("Failed to list leave requests", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list leave requests")
	}
	return toLeaveRequestDTOs(requests), nil
}

// ListPending lists requests awaiting review
func (s *LeaveService) ListPending(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]LeaveRequestDTO, error) {
	requests, err := s.leaveRepo.FindByStatus(ctx, tenantID, academic.LeavePending, filter.ToSharedFilter())
	if err != nil {
		s.logger.Error("Failed to list pending leave requests", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list pending leave requests")
	}
	return toLeaveRequestDTOs(requests), nil
}

// Review approves or rejects a pending request. Decisions are final.
func (s *LeaveService) Review(ctx context.Context, tenantID uuid.UUID, input ReviewLeaveInput) (*LeaveRequestDTO, error) {
	request, err := s.findRequest(ctx, tenantID, input.RequestID)
	if err != nil {
		return nil, err
	}
	if input.Approve {
		err = request.Approve(input.ReviewerID, input.Remarks)
	} else {
		err = request.Reject(input.ReviewerID, input.Remarks)
	}
	if err != nil {
		return nil, err
	}
	if err := s.leaveRepo.Save(ctx, request); err != nil {
		s.logger.Error("Failed to save leave decision", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save leave decision")
	}

	s.logger.Info("Leave request reviewed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("request_id", request.ID.String()),
		zap.String("status", string(request.Status)))

	return toLeaveRequestDTO(request), nil
}

// Cancel withdraws a request. An approved leave can only be withdrawn
// before its first day; rejected requests cannot be cancelled.
func (s *LeaveService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*LeaveRequestDTO, error) {
	request, err := s.findRequest(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := request.Cancel(time.Now()); err != nil {
		if errors.Is(err, shared.ErrInvalidState) {
			return nil, shared.NewDomainError("LEAVE_NOT_CANCELLABLE", "Leave request cannot be cancelled in its current state")
		}
		return nil, err
	}
	if err := s.leaveRepo.Save(ctx, request); err != nil {
		s.logger.Error("Failed to cancel leave request", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to cancel leave request")
	}
	return toLeaveRequestDTO(request), nil
}

func (s *LeaveService) findRequest(ctx context.Context, tenantID, id uuid.UUID) (*academic.LeaveRequest, error) {
	request, err := s.leaveRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("LEAVE_NOT_FOUND", "Leave request not found")
		}
		s.logger.Error("Failed to find leave request", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find leave request")
	}
	return request, nil
}

func toLeaveRequestDTOs(requests []*academic.LeaveRequest) []LeaveRequestDTO {
	dtos := make([]LeaveRequestDTO, len(requests))
	for i, r := range requests {
		dtos[i] = *toLeaveRequestDTO(r)
	}
	return dtos
}
