package fees

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/schoolhub/backend/internal/domain/fees"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// FeeCategoryDTO represents a fee category in API responses
type FeeCategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func toFeeCategoryDTO(c *fees.FeeCategory) *FeeCategoryDTO {
	return &FeeCategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}
}

// FeeStructureDTO represents a fee structure in API responses
type FeeStructureDTO struct {
	ID             uuid.UUID  `json:"id"`
	CategoryID     uuid.UUID  `json:"category_id"`
	ClassID        *uuid.UUID `json:"class_id,omitempty"`
	AcademicYearID uuid.UUID  `json:"academic_year_id"`
	Amount         string     `json:"amount"`
	LateFee        string     `json:"late_fee"`
	GraceDays      int        `json:"grace_days"`
	DueDate        *time.Time `json:"due_date,omitempty"`
}

func toFeeStructureDTO(s *fees.FeeStructure) *FeeStructureDTO {
	return &FeeStructureDTO{
		ID:             s.ID,
		CategoryID:     s.CategoryID,
		ClassID:        s.ClassID,
		AcademicYearID: s.AcademicYearID,
		Amount:         s.Amount.StringFixed(2),
		LateFee:        s.LateFee.StringFixed(2),
		GraceDays:      s.GraceDays,
		DueDate:        s.DueDate,
	}
}

// DiscountDTO represents a discount in API responses
type DiscountDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Type  string    `json:"type"`
	Value string    `json:"value"`
}

func toDiscountDTO(d *fees.Discount) *DiscountDTO {
	return &DiscountDTO{
		ID:    d.ID,
		Name:  d.Name,
		Type:  string(d.Type),
		Value: d.Value.StringFixed(2),
	}
}

// AllocationDTO represents a student's ledger row in API responses.
// Status carries the derived overdue side-state.
type AllocationDTO struct {
	ID             uuid.UUID  `json:"id"`
	StudentID      uuid.UUID  `json:"student_id"`
	FeeStructureID uuid.UUID  `json:"fee_structure_id"`
	AcademicYearID uuid.UUID  `json:"academic_year_id"`
	OriginalAmount string     `json:"original_amount"`
	DiscountAmount string     `json:"discount_amount"`
	NetAmount      string     `json:"net_amount"`
	PaidAmount     string     `json:"paid_amount"`
	DueAmount      string     `json:"due_amount"`
	Status         string     `json:"status"`
	DueDate        *time.Time `json:"due_date,omitempty"`
}

func toAllocationDTO(a *fees.StudentFeeAllocation) *AllocationDTO {
	return &AllocationDTO{
		ID:             a.ID,
		StudentID:      a.StudentID,
		FeeStructureID: a.FeeStructureID,
		AcademicYearID: a.AcademicYearID,
		OriginalAmount: a.OriginalAmount.StringFixed(2),
		DiscountAmount: a.DiscountAmount.StringFixed(2),
		NetAmount:      a.NetAmount.StringFixed(2),
		PaidAmount:     a.PaidAmount.StringFixed(2),
		DueAmount:      a.DueAmount.StringFixed(2),
		Status:         string(a.EffectiveStatus(time.Now())),
		DueDate:        a.DueDate,
	}
}

// PaymentDTO represents a payment entry in API responses
type PaymentDTO struct {
	ID            uuid.UUID  `json:"id"`
	AllocationID  uuid.UUID  `json:"allocation_id"`
	StudentID     uuid.UUID  `json:"student_id"`
	Amount        string     `json:"amount"`
	LateFee       string     `json:"late_fee"`
	TotalAmount   string     `json:"total_amount"`
	ReceiptNumber string     `json:"receipt_number"`
	Method        string     `json:"method"`
	PaidAt        time.Time  `json:"paid_at"`
	RecordedBy    *uuid.UUID `json:"recorded_by,omitempty"`
	Overpayment   bool       `json:"overpayment"`
	Notes         string     `json:"notes,omitempty"`
}

func toPaymentDTO(p *fees.FeePayment) *PaymentDTO {
	return &PaymentDTO{
		ID:            p.ID,
		AllocationID:  p.AllocationID,
		StudentID:     p.StudentID,
		Amount:        p.Amount.StringFixed(2),
		LateFee:       p.LateFee.StringFixed(2),
		TotalAmount:   p.TotalAmount.StringFixed(2),
		ReceiptNumber: p.ReceiptNumber,
		Method:        string(p.Method),
		PaidAt:        p.PaidAt,
		RecordedBy:    p.RecordedBy,
		Overpayment:   p.Overpayment,
		Notes:         p.Notes,
	}
}

// ListFilter carries pagination parameters from the transport layer
type ListFilter struct {
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
	Keyword  string
}

// ToSharedFilter converts to a shared.Filter with sane bounds
func (f ListFilter) ToSharedFilter() shared.Filter {
	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  f.SortBy,
		OrderDir: f.SortDir,
		Search:   f.Keyword,
	}
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Amount must be a decimal number")
	}
	return amount, nil
}
