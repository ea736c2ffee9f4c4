package fees

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a fee payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodOnline       PaymentMethod = "online"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodMobileMoney,
		PaymentMethodCard, PaymentMethodCheque, PaymentMethodOnline:
		return true
	}
	return false
}

// ReceiptNumberFormat is the human-facing receipt identifier layout:
// RCP-<calendar year>-<6 digit per-tenant sequence>.
const ReceiptNumberFormat = "RCP-%d-%06d"

// FormatReceiptNumber builds a receipt number from year and sequence
func FormatReceiptNumber(year, sequence int) string {
	return fmt.Sprintf(ReceiptNumberFormat, year, sequence)
}

// ParseReceiptSequence extracts the sequence from a receipt number,
// verifying it belongs to the given year.
func ParseReceiptSequence(receiptNumber string, year int) (int, error) {
	var gotYear, seq int
	if _, err := fmt.Sscanf(receiptNumber, ReceiptNumberFormat, &gotYear, &seq); err != nil {
		return 0, fmt.Errorf("malformed receipt number %q: %w", receiptNumber, err)
	}
	if gotYear != year {
		return 0, fmt.Errorf("receipt number %q is not from year %d", receiptNumber, year)
	}
	return seq, nil
}

// FeePayment is an immutable ledger entry against an allocation. Once
// created it is never updated; corrections are soft deletions paired
// with a fresh entry. Creating a payment is the only writer that
// advances an allocation's paid amount.
type FeePayment struct {
	shared.TenantAggregateRoot
	AllocationID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	StudentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	LateFee       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ReceiptNumber string          `gorm:"type:varchar(30);not null;index"`
	Method        PaymentMethod   `gorm:"type:varchar(20);not null"`
	PaidAt        time.Time       `gorm:"not null"`
	RecordedBy    *uuid.UUID      `gorm:"type:uuid"`
	Overpayment   bool            `gorm:"not null;default:false"`
	Notes         string          `gorm:"type:text"`
	DeletedAt     *time.Time      `gorm:"index"`
}

// TableName returns the table name for GORM
func (FeePayment) TableName() string {
	return "fee_payments"
}

// NewFeePayment creates a payment entry against an allocation. The
// receipt number is assigned by the ledger at persistence time.
func NewFeePayment(allocation *StudentFeeAllocation, amount, lateFee decimal.Decimal, method PaymentMethod) (*FeePayment, error) {
	if allocation == nil {
		return nil, shared.NewDomainError("INVALID_ALLOCATION", "Allocation is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if lateFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_LATE_FEE", "Late fee cannot be negative")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}

	p := &FeePayment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(allocation.TenantID),
		AllocationID:        allocation.ID,
		StudentID:           allocation.StudentID,
		Amount:              amount,
		LateFee:             lateFee,
		TotalAmount:         amount.Add(lateFee),
		Method:              method,
		PaidAt:              time.Now(),
	}

	p.AddDomainEvent(NewPaymentRecordedEvent(p))

	return p, nil
}

// WithRecordedBy attaches the operator who recorded the payment
func (p *FeePayment) WithRecordedBy(userID uuid.UUID) *FeePayment {
	p.RecordedBy = &userID
	return p
}

// WithNotes attaches free-text notes
func (p *FeePayment) WithNotes(notes string) *FeePayment {
	p.Notes = notes
	return p
}

// AssignReceiptNumber sets the receipt identifier. It can be assigned
// exactly once; the payment is immutable afterwards.
func (p *FeePayment) AssignReceiptNumber(receiptNumber string) error {
	if p.ReceiptNumber != "" {
		return shared.ErrInvalidState
	}
	if receiptNumber == "" {
		return shared.NewDomainError("INVALID_RECEIPT", "Receipt number cannot be empty")
	}
	p.ReceiptNumber = receiptNumber
	return nil
}

// FlagOverpayment marks the payment as exceeding the due amount at the
// time it was recorded. Flagged, not rejected: the arithmetic floors the
// due amount at zero and the entry stays for audit review.
func (p *FeePayment) FlagOverpayment() {
	p.Overpayment = true
}
