package fees

import (
	"strings"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscountType distinguishes percentage discounts from fixed deductions
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// IsValid checks if the discount type is valid
func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

var oneHundred = decimal.NewFromInt(100)

// Discount reduces a fee amount at allocation time
type Discount struct {
	shared.TenantAggregateRoot
	Name  string          `gorm:"type:varchar(100);not null"`
	Type  DiscountType    `gorm:"type:varchar(20);not null"`
	Value decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// TableName returns the table name for GORM
func (Discount) TableName() string {
	return "discounts"
}

// NewDiscount creates a discount for a tenant
func NewDiscount(tenantID uuid.UUID, name string, discountType DiscountType, value decimal.Decimal) (*Discount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Discount name cannot be empty")
	}
	if !discountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Discount type must be percentage or fixed")
	}
	if value.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Discount value cannot be negative")
	}
	if discountType == DiscountTypePercentage && value.GreaterThan(oneHundred) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Percentage discount cannot exceed 100")
	}
	return &Discount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Type:                discountType,
		Value:               value,
	}, nil
}

// CalculateDiscount returns the deduction for the given amount. A
// percentage discount rounds to two decimal places; a fixed discount is
// capped at the amount so it can never push a balance negative.
func (d *Discount) CalculateDiscount(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	switch d.Type {
	case DiscountTypePercentage:
		return amount.Mul(d.Value).Div(oneHundred).Round(2)
	case DiscountTypeFixed:
		if d.Value.GreaterThan(amount) {
			return amount
		}
		return d.Value
	}
	return decimal.Zero
}
