package academic

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// LeaveStatus represents where a leave request is in its lifecycle
type LeaveStatus string

const (
	LeavePending   LeaveStatus = "pending"
	LeaveApproved  LeaveStatus = "approved"
	LeaveRejected  LeaveStatus = "rejected"
	LeaveCancelled LeaveStatus = "cancelled"
)

// RequesterType distinguishes who the leave is for
type RequesterType string

const (
	RequesterStudent RequesterType = "student"
	RequesterStaff   RequesterType = "staff"
)

// IsValid checks if the type is a valid RequesterType
func (t RequesterType) IsValid() bool {
	return t == RequesterStudent || t == RequesterStaff
}

// LeaveRequest is an absence request made for a student or a staff
// member. Once a reviewer decides it the decision fields are frozen; a
// decided request can only move further to cancelled by the requester
// withdrawing an approved leave.
type LeaveRequest struct {
	shared.TenantAggregateRoot
	RequesterType RequesterType `gorm:"type:varchar(20);not null"`
	RequesterID   uuid.UUID     `gorm:"type:uuid;not null;index"`
	FromDate      time.Time     `gorm:"type:date;not null"`
	ToDate        time.Time     `gorm:"type:date;not null"`
	Reason        string        `gorm:"type:text;not null"`
	Status        LeaveStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	ReviewedBy    *uuid.UUID    `gorm:"type:uuid"`
	ReviewedAt    *time.Time
	ReviewRemarks string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// NewLeaveRequest files a leave request
func NewLeaveRequest(tenantID, requesterID uuid.UUID, requesterType RequesterType, from, to time.Time, reason string) (*LeaveRequest, error) {
	if !requesterType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REQUESTER", "Invalid requester type")
	}
	if requesterID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Requester is required")
	}
	from = NormalizeDate(from)
	to = NormalizeDate(to)
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Leave end date cannot be before start date")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Leave reason is required")
	}
	return &LeaveRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RequesterType:       requesterType,
		RequesterID:         requesterID,
		FromDate:            from,
		ToDate:              to,
		Reason:              strings.TrimSpace(reason),
		Status:              LeavePending,
	}, nil
}

// Days returns the inclusive length of the leave in days
func (l *LeaveRequest) Days() int {
	return int(l.ToDate.Sub(l.FromDate).Hours()/24) + 1
}

// IsDecided reports whether a reviewer has already ruled on the request
func (l *LeaveRequest) IsDecided() bool {
	return l.Status == LeaveApproved || l.Status == LeaveRejected
}

// Approve records an approval decision
func (l *LeaveRequest) Approve(reviewerID uuid.UUID, remarks string) error {
	return l.decide(LeaveApproved, reviewerID, remarks)
}

// Reject records a rejection decision
func (l *LeaveRequest) Reject(reviewerID uuid.UUID, remarks string) error {
	return l.decide(LeaveRejected, reviewerID, remarks)
}

func (l *LeaveRequest) decide(status LeaveStatus, reviewerID uuid.UUID, remarks string) error {
	if l.Status != LeavePending {
		return shared.NewDomainError("LEAVE_ALREADY_DECIDED", "Leave request has already been decided")
	}
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_REFERENCE", "Reviewer is required")
	}
	now := time.Now()
	l.Status = status
	l.ReviewedBy = &reviewerID
	l.ReviewedAt = &now
	l.ReviewRemarks = remarks
	l.Touch()
	l.IncrementVersion()
	return nil
}

// Cancel withdraws the request. Pending requests cancel freely; an
// approved leave can be withdrawn before it starts. Rejected requests
// stay rejected.
func (l *LeaveRequest) Cancel(now time.Time) error {
	switch l.Status {
	case LeavePending:
	case LeaveApproved:
		if !NormalizeDate(now).Before(l.FromDate) {
			return shared.NewDomainError("LEAVE_IN_PROGRESS", "Cannot cancel a leave that has already started")
		}
	default:
		return shared.ErrInvalidState
	}
	l.Status = LeaveCancelled
	l.Touch()
	l.IncrementVersion()
	return nil
}

// Covers reports whether the given date falls inside the leave window
func (l *LeaveRequest) Covers(date time.Time) bool {
	d := NormalizeDate(date)
	return !d.Before(l.FromDate) && !d.After(l.ToDate)
}
