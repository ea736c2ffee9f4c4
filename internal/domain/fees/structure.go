package fees

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FeeStructure fixes an amount for a (category, class, academic year)
// combination. A nil ClassID means the structure applies to all classes
// of the year.
type FeeStructure struct {
	shared.TenantAggregateRoot
	CategoryID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClassID        *uuid.UUID      `gorm:"type:uuid;index"`
	AcademicYearID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	LateFee        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	GraceDays      int             `gorm:"not null;default:0"`
	DueDate        *time.Time
}

// TableName returns the table name for GORM
func (FeeStructure) TableName() string {
	return "fee_structures"
}

// NewFeeStructure creates a fee structure for a tenant
func NewFeeStructure(tenantID, categoryID, academicYearID uuid.UUID, classID *uuid.UUID, amount decimal.Decimal) (*FeeStructure, error) {
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Fee category is required")
	}
	if academicYearID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACADEMIC_YEAR", "Academic year is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Fee amount must be positive")
	}
	return &FeeStructure{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CategoryID:          categoryID,
		ClassID:             classID,
		AcademicYearID:      academicYearID,
		Amount:              amount,
		LateFee:             decimal.Zero,
	}, nil
}

// SetLateFee configures the late fee and its grace period
func (s *FeeStructure) SetLateFee(lateFee decimal.Decimal, graceDays int) error {
	if lateFee.IsNegative() {
		return shared.NewDomainError("INVALID_LATE_FEE", "Late fee cannot be negative")
	}
	if graceDays < 0 {
		return shared.NewDomainError("INVALID_GRACE_DAYS", "Grace days cannot be negative")
	}
	s.LateFee = lateFee
	s.GraceDays = graceDays
	s.Touch()
	s.IncrementVersion()
	return nil
}

// SetDueDate sets the payment due date
func (s *FeeStructure) SetDueDate(due time.Time) {
	s.DueDate = &due
	s.Touch()
	s.IncrementVersion()
}

// AppliesTo reports whether the structure applies to the given class.
// A structure without a class applies to every class of its year.
func (s *FeeStructure) AppliesTo(classID uuid.UUID) bool {
	return s.ClassID == nil || *s.ClassID == classID
}

// LateFeeDeadline returns the due date shifted by the grace period, or
// nil when no due date is set.
func (s *FeeStructure) LateFeeDeadline() *time.Time {
	if s.DueDate == nil {
		return nil
	}
	deadline := s.DueDate.AddDate(0, 0, s.GraceDays)
	return &deadline
}

// IsLate reports whether a payment at the given time incurs the late fee
func (s *FeeStructure) IsLate(at time.Time) bool {
	deadline := s.LateFeeDeadline()
	return deadline != nil && at.After(*deadline)
}
