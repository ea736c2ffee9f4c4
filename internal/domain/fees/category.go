// Package fees holds the fee ledger: categories and structures describe
// what a school charges, allocations assess a student's obligation, and
// payments are the immutable entries that settle them.
package fees

import (
	"strings"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// FeeCategory groups fee structures (tuition, transport, library...)
type FeeCategory struct {
	shared.TenantAggregateRoot
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (FeeCategory) TableName() string {
	return "fee_categories"
}

// NewFeeCategory creates a new fee category for a tenant
func NewFeeCategory(tenantID uuid.UUID, name, description string) (*FeeCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return &FeeCategory{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         description,
		Active:              true,
	}, nil
}

// Rename updates the category name
func (c *FeeCategory) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	c.Name = name
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Deactivate retires the category from new fee structures
func (c *FeeCategory) Deactivate() {
	c.Active = false
	c.Touch()
	c.IncrementVersion()
}
