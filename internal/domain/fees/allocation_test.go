package fees

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStructure(t *testing.T, tenantID uuid.UUID, amount int64) *FeeStructure {
	t.Helper()
	s, err := NewFeeStructure(tenantID, uuid.New(), uuid.New(), nil, decimal.NewFromInt(amount))
	require.NoError(t, err)
	return s
}

func TestNewAllocation(t *testing.T) {
	tenantID := uuid.New()
	studentID := uuid.New()

	t.Run("creates pending allocation with full due", func(t *testing.T) {
		structure := newTestStructure(t, tenantID, 1000)

		a, err := NewAllocation(structure, studentID, nil)
		require.NoError(t, err)

		assert.Equal(t, tenantID, a.TenantID)
		assert.True(t, a.NetAmount.Equal(decimal.NewFromInt(1000)))
		assert.True(t, a.DueAmount.Equal(decimal.NewFromInt(1000)))
		assert.True(t, a.PaidAmount.IsZero())
		assert.Equal(t, AllocationStatusPending, a.Status)
		assert.NoError(t, a.CheckInvariant())
	})

	t.Run("freezes discount at allocation time", func(t *testing.T) {
		structure := newTestStructure(t, tenantID, 1500)
		discount, err := NewDiscount(tenantID, "Ten percent", DiscountTypePercentage, decimal.NewFromInt(10))
		require.NoError(t, err)

		a, err := NewAllocation(structure, studentID, discount)
		require.NoError(t, err)

		assert.True(t, a.DiscountAmount.Equal(decimal.NewFromInt(150)))
		assert.True(t, a.NetAmount.Equal(decimal.NewFromInt(1350)))
		assert.True(t, a.DueAmount.Equal(decimal.NewFromInt(1350)))
	})

	t.Run("fixed discount covering the full amount settles immediately", func(t *testing.T) {
		structure := newTestStructure(t, tenantID, 300)
		discount, err := NewDiscount(tenantID, "Full bursary", DiscountTypeFixed, decimal.NewFromInt(500))
		require.NoError(t, err)

		a, err := NewAllocation(structure, studentID, discount)
		require.NoError(t, err)

		assert.True(t, a.NetAmount.IsZero())
		assert.Equal(t, AllocationStatusPaid, a.Status)
		assert.False(t, a.DueAmount.IsNegative(), "discount alone never produces negative due")
	})

	t.Run("rejects discount from another tenant", func(t *testing.T) {
		structure := newTestStructure(t, tenantID, 1000)
		discount, err := NewDiscount(uuid.New(), "Foreign", DiscountTypeFixed, decimal.NewFromInt(100))
		require.NoError(t, err)

		_, err = NewAllocation(structure, studentID, discount)
		assert.ErrorIs(t, err, shared.ErrConflict)
	})
}

func TestApplyPayment(t *testing.T) {
	tenantID := uuid.New()
	studentID := uuid.New()

	t.Run("payment sequence moves pending to partial to paid", func(t *testing.T) {
		a, err := NewAllocation(newTestStructure(t, tenantID, 1000), studentID, nil)
		require.NoError(t, err)

		overpaid, err := a.ApplyPayment(decimal.NewFromInt(400))
		require.NoError(t, err)
		assert.False(t, overpaid)
		assert.True(t, a.DueAmount.Equal(decimal.NewFromInt(600)))
		assert.Equal(t, AllocationStatusPartial, a.Status)

		overpaid, err = a.ApplyPayment(decimal.NewFromInt(400))
		require.NoError(t, err)
		assert.False(t, overpaid)
		assert.True(t, a.DueAmount.Equal(decimal.NewFromInt(200)))
		assert.Equal(t, AllocationStatusPartial, a.Status)

		overpaid, err = a.ApplyPayment(decimal.NewFromInt(300))
		require.NoError(t, err)
		assert.True(t, overpaid, "final 300 against 200 due is an overpayment")
		assert.True(t, a.DueAmount.IsZero(), "due floors at zero")
		assert.True(t, a.PaidAmount.Equal(decimal.NewFromInt(1100)))
		assert.Equal(t, AllocationStatusPaid, a.Status)
		assert.NoError(t, a.CheckInvariant())
	})

	t.Run("payment against settled allocation still succeeds arithmetically", func(t *testing.T) {
		a, err := NewAllocation(newTestStructure(t, tenantID, 100), studentID, nil)
		require.NoError(t, err)
		_, err = a.ApplyPayment(decimal.NewFromInt(100))
		require.NoError(t, err)

		overpaid, err := a.ApplyPayment(decimal.NewFromInt(200))
		require.NoError(t, err)
		assert.True(t, overpaid)
		assert.True(t, a.DueAmount.IsZero())
		assert.Equal(t, AllocationStatusPaid, a.Status)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		a, err := NewAllocation(newTestStructure(t, tenantID, 100), studentID, nil)
		require.NoError(t, err)

		_, err = a.ApplyPayment(decimal.Zero)
		assert.Error(t, err)
		_, err = a.ApplyPayment(decimal.NewFromInt(-10))
		assert.Error(t, err)
	})

	t.Run("rejects payment on waived allocation", func(t *testing.T) {
		a, err := NewAllocation(newTestStructure(t, tenantID, 100), studentID, nil)
		require.NoError(t, err)
		require.NoError(t, a.Waive())

		_, err = a.ApplyPayment(decimal.NewFromInt(10))
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("aborts on corrupted ledger row", func(t *testing.T) {
		a, err := NewAllocation(newTestStructure(t, tenantID, 1000), studentID, nil)
		require.NoError(t, err)
		a.DueAmount = decimal.NewFromInt(123) // corrupt outside the ledger

		_, err = a.ApplyPayment(decimal.NewFromInt(10))
		var violation *shared.InvariantViolation
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, "due_amount", violation.Invariant)
	})
}

func TestWaive(t *testing.T) {
	a, err := NewAllocation(newTestStructure(t, uuid.New(), 500), uuid.New(), nil)
	require.NoError(t, err)

	require.NoError(t, a.Waive())
	assert.Equal(t, AllocationStatusWaived, a.Status)

	t.Run("paid allocation cannot be waived", func(t *testing.T) {
		b, err := NewAllocation(newTestStructure(t, uuid.New(), 100), uuid.New(), nil)
		require.NoError(t, err)
		_, err = b.ApplyPayment(decimal.NewFromInt(100))
		require.NoError(t, err)

		assert.ErrorIs(t, b.Waive(), shared.ErrInvalidState)
	})
}

func TestOverdueDerivation(t *testing.T) {
	tenantID := uuid.New()
	structure := newTestStructure(t, tenantID, 1000)
	past := time.Now().AddDate(0, 0, -10)
	structure.SetDueDate(past)

	a, err := NewAllocation(structure, uuid.New(), nil)
	require.NoError(t, err)

	now := time.Now()
	assert.True(t, a.IsOverdue(now))
	assert.Equal(t, AllocationStatusOverdue, a.EffectiveStatus(now))
	assert.Equal(t, AllocationStatusPending, a.Status, "stored status stays pending")

	_, err = a.ApplyPayment(decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.False(t, a.IsOverdue(now), "settled allocation is never overdue")
	assert.Equal(t, AllocationStatusPaid, a.EffectiveStatus(now))
}
