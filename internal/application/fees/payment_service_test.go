package fees

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/fees"
	"github.com/schoolhub/backend/internal/domain/shared"
)

type paymentServiceMocks struct {
	ledger      *MockLedger
	payments    *MockPaymentRepository
	allocations *MockAllocationRepository
	structures  *MockFeeStructureRepository
}

func newPaymentTestService() (*PaymentService, paymentServiceMocks) {
	m := paymentServiceMocks{
		ledger:      new(MockLedger),
		payments:    new(MockPaymentRepository),
		allocations: new(MockAllocationRepository),
		structures:  new(MockFeeStructureRepository),
	}
	service := NewPaymentService(m.ledger, m.payments, m.allocations, m.structures, zap.NewNop())
	return service, m
}

func newTestAllocation(t *testing.T, tenantID uuid.UUID, amount string) (*fees.StudentFeeAllocation, *fees.FeeStructure) {
	t.Helper()
	structure := newTestStructure(t, tenantID, amount)
	allocation, err := fees.NewAllocation(structure, uuid.New(), nil)
	require.NoError(t, err)
	return allocation, structure
}

func TestPaymentService_Record(t *testing.T) {
	tenantID := uuid.New()
	service, m := newPaymentTestService()

	allocation, structure := newTestAllocation(t, tenantID, "1000.00")
	m.allocations.On("FindByIDForTenant", mock.Anything, tenantID, allocation.ID).Return(allocation, nil)
	m.structures.On("FindByIDForTenant", mock.Anything, tenantID, structure.ID).Return(structure, nil)

	payment, err := fees.NewFeePayment(allocation, decimal.RequireFromString("400.00"), decimal.Zero, fees.PaymentMethodCash)
	require.NoError(t, err)
	require.NoError(t, payment.AssignReceiptNumber("RCP-2025-000042"))
	_, err = allocation.ApplyPayment(decimal.RequireFromString("400.00"))
	require.NoError(t, err)

	m.ledger.On("RecordPayment", mock.Anything, tenantID, mock.AnythingOfType("fees.LedgerEntry")).
		Return(&fees.LedgerResult{Payment: payment, Allocation: allocation}, nil)

	result, err := service.Record(context.Background(), tenantID, RecordPaymentInput{
		AllocationID: allocation.ID,
		Amount:       "400.00",
		Method:       string(fees.PaymentMethodCash),
	})

	require.NoError(t, err)
	assert.Equal(t, "RCP-2025-000042", result.Payment.ReceiptNumber)
	assert.Equal(t, "600.00", result.Allocation.DueAmount)
	assert.Equal(t, string(fees.AllocationStatusPartial), result.Allocation.Status)
	assert.False(t, result.Overpaid)
}

func TestPaymentService_Record_WaivedAllocation(t *testing.T) {
	tenantID := uuid.New()
	service, m := newPaymentTestService()

	allocation, _ := newTestAllocation(t, tenantID, "1000.00")
	require.NoError(t, allocation.Waive())
	m.allocations.On("FindByIDForTenant", mock.Anything, tenantID, allocation.ID).Return(allocation, nil)

	_, err := service.Record(context.Background(), tenantID, RecordPaymentInput{
		AllocationID: allocation.ID,
		Amount:       "100.00",
		Method:       string(fees.PaymentMethodCash),
	})

	assertDomainCode(t, err, "ALLOCATION_WAIVED")
	m.ledger.AssertNotCalled(t, "RecordPayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_Record_InvalidMethod(t *testing.T) {
	tenantID := uuid.New()
	service, m := newPaymentTestService()

	allocation, structure := newTestAllocation(t, tenantID, "1000.00")
	m.allocations.On("FindByIDForTenant", mock.Anything, tenantID, allocation.ID).Return(allocation, nil)
	m.structures.On("FindByIDForTenant", mock.Anything, tenantID, structure.ID).Return(structure, nil)

	_, err := service.Record(context.Background(), tenantID, RecordPaymentInput{
		AllocationID: allocation.ID,
		Amount:       "100.00",
		Method:       "barter",
	})

	assertDomainCode(t, err, "INVALID_PAYMENT_METHOD")
}

func TestPaymentService_Record_Overpaid(t *testing.T) {
	tenantID := uuid.New()
	service, m := newPaymentTestService()

	allocation, structure := newTestAllocation(t, tenantID, "200.00")
	m.allocations.On("FindByIDForTenant", mock.Anything, tenantID, allocation.ID).Return(allocation, nil)
	m.structures.On("FindByIDForTenant", mock.Anything, tenantID, structure.ID).Return(structure, nil)

	payment, err := fees.NewFeePayment(allocation, decimal.RequireFromString("300.00"), decimal.Zero, fees.PaymentMethodOnline)
	require.NoError(t, err)
	require.NoError(t, payment.AssignReceiptNumber("RCP-2025-000007"))
	payment.FlagOverpayment()
	overpaid, err := allocation.ApplyPayment(decimal.RequireFromString("300.00"))
	require.NoError(t, err)
	require.True(t, overpaid)

	m.ledger.On("RecordPayment", mock.Anything, tenantID, mock.AnythingOfType("fees.LedgerEntry")).
		Return(&fees.LedgerResult{Payment: payment, Allocation: allocation, Overpaid: true}, nil)

	result, err := service.Record(context.Background(), tenantID, RecordPaymentInput{
		AllocationID: allocation.ID,
		Amount:       "300.00",
		Method:       string(fees.PaymentMethodOnline),
	})

	require.NoError(t, err)
	assert.True(t, result.Overpaid)
	assert.True(t, result.Payment.Overpayment)
	assert.Equal(t, "0.00", result.Allocation.DueAmount)
	assert.Equal(t, string(fees.AllocationStatusPaid), result.Allocation.Status)
}

func TestPaymentService_GetByReceipt_NotFound(t *testing.T) {
	tenantID := uuid.New()
	service, m := newPaymentTestService()

	m.payments.On("FindByReceiptNumber", mock.Anything, tenantID, "RCP-2025-999999").Return(nil, shared.ErrNotFound)

	_, err := service.GetByReceipt(context.Background(), tenantID, "RCP-2025-999999")

	assertDomainCode(t, err, "PAYMENT_NOT_FOUND")
}

func TestPaymentService_Void(t *testing.T) {
	tenantID := uuid.New()
	service, m := newPaymentTestService()

	allocation, _ := newTestAllocation(t, tenantID, "100.00")
	payment, err := fees.NewFeePayment(allocation, decimal.RequireFromString("100.00"), decimal.Zero, fees.PaymentMethodCash)
	require.NoError(t, err)
	require.NoError(t, payment.AssignReceiptNumber("RCP-2025-000099"))

	m.payments.On("FindByIDForTenant", mock.Anything, tenantID, payment.ID).Return(payment, nil)
	m.payments.On("SoftDelete", mock.Anything, tenantID, payment.ID).Return(nil)

	err = service.Void(context.Background(), tenantID, payment.ID)

	require.NoError(t, err)
	m.payments.AssertExpectations(t)
}
