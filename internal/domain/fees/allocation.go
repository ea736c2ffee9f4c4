package fees

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AllocationStatus is the settlement state of an allocation. The payment
// path moves pending → partial → paid, forward only. Waived is a manual
// terminal override; overdue is derived from the due date, never stored
// as the result of a payment.
type AllocationStatus string

const (
	AllocationStatusPending AllocationStatus = "pending"
	AllocationStatusPartial AllocationStatus = "partial"
	AllocationStatusPaid    AllocationStatus = "paid"
	AllocationStatusOverdue AllocationStatus = "overdue"
	AllocationStatusWaived  AllocationStatus = "waived"
)

// IsValid checks if the status is a valid AllocationStatus
func (s AllocationStatus) IsValid() bool {
	switch s {
	case AllocationStatusPending, AllocationStatusPartial, AllocationStatusPaid,
		AllocationStatusOverdue, AllocationStatusWaived:
		return true
	}
	return false
}

// IsSettled reports whether no further payment is expected
func (s AllocationStatus) IsSettled() bool {
	return s == AllocationStatusPaid || s == AllocationStatusWaived
}

// StudentFeeAllocation is the ledger row: one per (student, fee
// structure). On every mutation due = max(0, net − paid) must hold and
// the status is recomputed from the amounts, never set directly.
type StudentFeeAllocation struct {
	shared.TenantAggregateRoot
	StudentID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	FeeStructureID uuid.UUID        `gorm:"type:uuid;not null;index"`
	AcademicYearID uuid.UUID        `gorm:"type:uuid;not null;index"`
	OriginalAmount decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	DiscountAmount decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0"`
	NetAmount      decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	PaidAmount     decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0"`
	DueAmount      decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	Status         AllocationStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	DueDate        *time.Time       `gorm:"index"`
}

// TableName returns the table name for GORM
func (StudentFeeAllocation) TableName() string {
	return "student_fee_allocations"
}

// NewAllocation assesses a student against a fee structure, applying an
// optional discount. The discount is computed once at allocation time
// and frozen into the row.
func NewAllocation(structure *FeeStructure, studentID uuid.UUID, discount *Discount) (*StudentFeeAllocation, error) {
	if structure == nil {
		return nil, shared.NewDomainError("INVALID_STRUCTURE", "Fee structure is required")
	}
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student is required")
	}

	discountAmount := decimal.Zero
	if discount != nil {
		if discount.TenantID != structure.TenantID {
			return nil, shared.ErrConflict
		}
		discountAmount = discount.CalculateDiscount(structure.Amount)
	}
	net := structure.Amount.Sub(discountAmount)

	a := &StudentFeeAllocation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(structure.TenantID),
		StudentID:           studentID,
		FeeStructureID:      structure.ID,
		AcademicYearID:      structure.AcademicYearID,
		OriginalAmount:      structure.Amount,
		DiscountAmount:      discountAmount,
		NetAmount:           net,
		PaidAmount:          decimal.Zero,
		DueAmount:           net,
		Status:              AllocationStatusPending,
		DueDate:             structure.DueDate,
	}
	if net.IsZero() {
		a.Status = AllocationStatusPaid
	}
	return a, nil
}

// ApplyPayment advances the paid amount and recomputes due and status.
// Overpayment is permitted — due floors at zero — but is reported back
// so the caller can flag it for audit rather than drop it silently.
func (a *StudentFeeAllocation) ApplyPayment(amount decimal.Decimal) (overpaid bool, err error) {
	if !amount.IsPositive() {
		return false, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if a.Status == AllocationStatusWaived {
		return false, shared.ErrInvalidState
	}
	if err := a.CheckInvariant(); err != nil {
		return false, err
	}

	overpaid = amount.GreaterThan(a.DueAmount)
	a.PaidAmount = a.PaidAmount.Add(amount)
	a.recompute()
	a.Touch()
	a.IncrementVersion()
	return overpaid, nil
}

// recompute derives due amount and status from the ledger amounts
func (a *StudentFeeAllocation) recompute() {
	due := a.NetAmount.Sub(a.PaidAmount)
	if due.IsNegative() {
		due = decimal.Zero
	}
	a.DueAmount = due

	switch {
	case due.IsZero():
		a.Status = AllocationStatusPaid
	case a.PaidAmount.IsPositive():
		a.Status = AllocationStatusPartial
	default:
		a.Status = AllocationStatusPending
	}
}

// Waive manually settles the allocation. Terminal: no further payments
// are accepted.
func (a *StudentFeeAllocation) Waive() error {
	if a.Status == AllocationStatusPaid {
		return shared.ErrInvalidState
	}
	a.Status = AllocationStatusWaived
	a.Touch()
	a.IncrementVersion()
	return nil
}

// IsOverdue reports whether the allocation is unpaid past its due date
func (a *StudentFeeAllocation) IsOverdue(now time.Time) bool {
	if a.DueDate == nil || a.Status.IsSettled() {
		return false
	}
	return now.After(*a.DueDate)
}

// EffectiveStatus returns the status with the derived overdue side-state
// applied on top of pending/partial.
func (a *StudentFeeAllocation) EffectiveStatus(now time.Time) AllocationStatus {
	if a.IsOverdue(now) {
		return AllocationStatusOverdue
	}
	return a.Status
}

// CheckInvariant verifies due = max(0, net − paid) and net =
// original − discount. A violation means the row was corrupted by a
// writer outside the ledger; the operation must abort, not repair.
func (a *StudentFeeAllocation) CheckInvariant() error {
	expectedNet := a.OriginalAmount.Sub(a.DiscountAmount)
	if !a.NetAmount.Equal(expectedNet) {
		return shared.NewInvariantViolation("net_amount",
			fmt.Sprintf("net %s != original %s - discount %s", a.NetAmount, a.OriginalAmount, a.DiscountAmount))
	}
	expectedDue := a.NetAmount.Sub(a.PaidAmount)
	if expectedDue.IsNegative() {
		expectedDue = decimal.Zero
	}
	if !a.DueAmount.Equal(expectedDue) {
		return shared.NewInvariantViolation("due_amount",
			fmt.Sprintf("due %s != max(0, net %s - paid %s)", a.DueAmount, a.NetAmount, a.PaidAmount))
	}
	return nil
}
