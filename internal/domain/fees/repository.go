package fees

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// FeeCategoryRepository defines persistence operations for fee categories
type FeeCategoryRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*FeeCategory, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]FeeCategory, error)
	Save(ctx context.Context, category *FeeCategory) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// FeeStructureRepository defines persistence operations for fee structures
type FeeStructureRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*FeeStructure, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]FeeStructure, error)
	// FindApplicable returns structures for the year that apply to the
	// class, including class-independent ones.
	FindApplicable(ctx context.Context, tenantID, academicYearID, classID uuid.UUID) ([]FeeStructure, error)
	Save(ctx context.Context, structure *FeeStructure) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// DiscountRepository defines persistence operations for discounts
type DiscountRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Discount, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Discount, error)
	Save(ctx context.Context, discount *Discount) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// AllocationRepository defines persistence operations for allocations
type AllocationRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StudentFeeAllocation, error)
	FindByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]StudentFeeAllocation, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StudentFeeAllocation, error)
	// ExistsForStructure reports whether the student is already assessed
	// against the structure; the ledger holds one row per pair.
	ExistsForStructure(ctx context.Context, tenantID, studentID, structureID uuid.UUID) (bool, error)
	Save(ctx context.Context, allocation *StudentFeeAllocation) error
	// SummaryForStudent aggregates the student's ledger position.
	SummaryForStudent(ctx context.Context, tenantID, studentID uuid.UUID) (*StudentFeeSummary, error)
}

// PaymentRepository defines read operations for payments. Writes go
// through the Ledger so a payment row never exists without its
// allocation update.
type PaymentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*FeePayment, error)
	FindByReceiptNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*FeePayment, error)
	FindByAllocation(ctx context.Context, tenantID, allocationID uuid.UUID) ([]FeePayment, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]FeePayment, error)
	// SoftDelete voids a payment for correction. The entry itself stays
	// immutable; deletion never frees its receipt number for reuse.
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error
}

// Ledger is the transactional boundary for payment recording: the
// payment insert and the allocation update happen in one transaction,
// with the allocation row locked for the read-modify-write and the
// receipt number regenerated on a uniqueness collision.
type Ledger interface {
	RecordPayment(ctx context.Context, tenantID uuid.UUID, entry LedgerEntry) (*LedgerResult, error)
}

// LedgerEntry is the input to a payment recording
type LedgerEntry struct {
	AllocationID uuid.UUID
	Payment      *FeePayment
}

// LedgerResult is the outcome of a payment recording
type LedgerResult struct {
	Payment    *FeePayment
	Allocation *StudentFeeAllocation
	Overpaid   bool
}

// StudentFeeSummary aggregates a student's ledger position
type StudentFeeSummary struct {
	StudentID   uuid.UUID `json:"student_id"`
	TotalNet    string    `json:"total_net"`
	TotalPaid   string    `json:"total_paid"`
	TotalDue    string    `json:"total_due"`
	Pending     int64     `json:"pending"`
	Partial     int64     `json:"partial"`
	Paid        int64     `json:"paid"`
	Waived      int64     `json:"waived"`
	Allocations int64     `json:"allocations"`
}
