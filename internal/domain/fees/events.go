package fees

import (
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeAllocation = "StudentFeeAllocation"
	AggregateTypePayment    = "FeePayment"
)

// Event type constants
const (
	EventTypePaymentRecorded  = "FeePaymentRecorded"
	EventTypeAllocationWaived = "AllocationWaived"
)

// PaymentRecordedEvent is published when a fee payment is recorded
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	AllocationID string          `json:"allocation_id"`
	StudentID    string          `json:"student_id"`
	Amount       decimal.Decimal `json:"amount"`
	LateFee      decimal.Decimal `json:"late_fee"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Method       PaymentMethod   `json:"method"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(p *FeePayment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypePayment, p.ID, p.TenantID),
		AllocationID:    p.AllocationID.String(),
		StudentID:       p.StudentID.String(),
		Amount:          p.Amount,
		LateFee:         p.LateFee,
		TotalAmount:     p.TotalAmount,
		Method:          p.Method,
	}
}
