package fees

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/schoolhub/backend/internal/domain/fees"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// MockFeeCategoryRepository is a mock implementation of fees.FeeCategoryRepository
type MockFeeCategoryRepository struct {
	mock.Mock
}

func (m *MockFeeCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fees.FeeCategory, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fees.FeeCategory), args.Error(1)
}

func (m *MockFeeCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fees.FeeCategory, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]fees.FeeCategory), args.Error(1)
}

func (m *MockFeeCategoryRepository) Save(ctx context.Context, category *fees.FeeCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockFeeCategoryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockFeeStructureRepository is a mock implementation of fees.FeeStructureRepository
type MockFeeStructureRepository struct {
	mock.Mock
}

func (m *MockFeeStructureRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fees.FeeStructure, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fees.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fees.FeeStructure, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]fees.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) FindApplicable(ctx context.Context, tenantID, academicYearID, classID uuid.UUID) ([]fees.FeeStructure, error) {
	args := m.Called(ctx, tenantID, academicYearID, classID)
	return args.Get(0).([]fees.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) Save(ctx context.Context, structure *fees.FeeStructure) error {
	args := m.Called(ctx, structure)
	return args.Error(0)
}

func (m *MockFeeStructureRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockDiscountRepository is a mock implementation of fees.DiscountRepository
type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fees.Discount, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fees.Discount), args.Error(1)
}

func (m *MockDiscountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fees.Discount, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]fees.Discount), args.Error(1)
}

func (m *MockDiscountRepository) Save(ctx context.Context, discount *fees.Discount) error {
	args := m.Called(ctx, discount)
	return args.Error(0)
}

func (m *MockDiscountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockAllocationRepository is a mock implementation of fees.AllocationRepository
type MockAllocationRepository struct {
	mock.Mock
}

func (m *MockAllocationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fees.StudentFeeAllocation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fees.StudentFeeAllocation), args.Error(1)
}

func (m *MockAllocationRepository) FindByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]fees.StudentFeeAllocation, error) {
	args := m.Called(ctx, tenantID, studentID)
	return args.Get(0).([]fees.StudentFeeAllocation), args.Error(1)
}

func (m *MockAllocationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fees.StudentFeeAllocation, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]fees.StudentFeeAllocation), args.Error(1)
}

func (m *MockAllocationRepository) ExistsForStructure(ctx context.Context, tenantID, studentID, structureID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, studentID, structureID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAllocationRepository) Save(ctx context.Context, allocation *fees.StudentFeeAllocation) error {
	args := m.Called(ctx, allocation)
	return args.Error(0)
}

func (m *MockAllocationRepository) SummaryForStudent(ctx context.Context, tenantID, studentID uuid.UUID) (*fees.StudentFeeSummary, error) {
	args := m.Called(ctx, tenantID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fees.StudentFeeSummary), args.Error(1)
}

// MockPaymentRepository is a mock implementation of fees.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fees.FeePayment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fees.FeePayment), args.Error(1)
}

func (m *MockPaymentRepository) FindByReceiptNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*fees.FeePayment, error) {
	args := m.Called(ctx, tenantID, receiptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fees.FeePayment), args.Error(1)
}

func (m *MockPaymentRepository) FindByAllocation(ctx context.Context, tenantID, allocationID uuid.UUID) ([]fees.FeePayment, error) {
	args := m.Called(ctx, tenantID, allocationID)
	return args.Get(0).([]fees.FeePayment), args.Error(1)
}

func (m *MockPaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fees.FeePayment, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]fees.FeePayment), args.Error(1)
}

func (m *MockPaymentRepository) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockLedger is a mock implementation of fees.Ledger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) RecordPayment(ctx context.Context, tenantID uuid.UUID, entry fees.LedgerEntry) (*fees.LedgerResult, error) {
	args := m.Called(ctx, tenantID, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fees.LedgerResult), args.Error(1)
}
