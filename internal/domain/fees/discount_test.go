package fees

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscount(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates percentage discount", func(t *testing.T) {
		d, err := NewDiscount(tenantID, "Sibling", DiscountTypePercentage, decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.Equal(t, DiscountTypePercentage, d.Type)
	})

	t.Run("rejects percentage over 100", func(t *testing.T) {
		_, err := NewDiscount(tenantID, "Too much", DiscountTypePercentage, decimal.NewFromInt(150))
		assert.Error(t, err)
	})

	t.Run("rejects negative value", func(t *testing.T) {
		_, err := NewDiscount(tenantID, "Negative", DiscountTypeFixed, decimal.NewFromInt(-5))
		assert.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewDiscount(tenantID, "Odd", DiscountType("relative"), decimal.NewFromInt(5))
		assert.Error(t, err)
	})
}

func TestCalculateDiscount(t *testing.T) {
	tenantID := uuid.New()

	t.Run("percentage rounds to two decimals", func(t *testing.T) {
		d, err := NewDiscount(tenantID, "Ten percent", DiscountTypePercentage, decimal.NewFromInt(10))
		require.NoError(t, err)

		got := d.CalculateDiscount(decimal.NewFromInt(1500))
		assert.True(t, got.Equal(decimal.NewFromInt(150)), "got %s", got)

		got = d.CalculateDiscount(decimal.RequireFromString("333.33"))
		assert.True(t, got.Equal(decimal.RequireFromString("33.33")), "got %s", got)
	})

	t.Run("fixed discount capped at the amount", func(t *testing.T) {
		d, err := NewDiscount(tenantID, "Bursary", DiscountTypeFixed, decimal.NewFromInt(500))
		require.NoError(t, err)

		got := d.CalculateDiscount(decimal.NewFromInt(300))
		assert.True(t, got.Equal(decimal.NewFromInt(300)), "fixed discount never exceeds amount, got %s", got)

		got = d.CalculateDiscount(decimal.NewFromInt(800))
		assert.True(t, got.Equal(decimal.NewFromInt(500)), "got %s", got)
	})

	t.Run("negative amount yields zero", func(t *testing.T) {
		d, err := NewDiscount(tenantID, "Ten percent", DiscountTypePercentage, decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.True(t, d.CalculateDiscount(decimal.NewFromInt(-100)).IsZero())
	})
}
