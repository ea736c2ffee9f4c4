package fees

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/fees"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// PaymentService records and looks up fee payments. All writes go
// through the ledger so the payment insert and the allocation update
// land in one transaction.
type PaymentService struct {
	ledger         fees.Ledger
	paymentRepo    fees.PaymentRepository
	allocationRepo fees.AllocationRepository
	structureRepo  fees.FeeStructureRepository
	logger         *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	ledger fees.Ledger,
	paymentRepo fees.PaymentRepository,
	allocationRepo fees.AllocationRepository,
	structureRepo fees.FeeStructureRepository,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		ledger:         ledger,
		paymentRepo:    paymentRepo,
		allocationRepo: allocationRepo,
		structureRepo:  structureRepo,
		logger:         logger,
	}
}

// RecordPaymentInput contains input for recording a payment
type RecordPaymentInput struct {
	AllocationID uuid.UUID
	Amount       string
	Method       string
	RecordedBy   *uuid.UUID
	Notes        string
}

// RecordPaymentResult is the outcome of a payment recording
type RecordPaymentResult struct {
	Payment    PaymentDTO    `json:"payment"`
	Allocation AllocationDTO `json:"allocation"`
	Overpaid   bool          `json:"overpaid"`
}

// Record records a payment against an allocation. The late fee is
// derived from the structure's due date and grace period at the time of
// payment; overpayment is accepted, flagged on the entry and reported
// back instead of being rejected.
func (s *PaymentService) Record(ctx context.Context, tenantID uuid.UUID, input RecordPaymentInput) (*RecordPaymentResult, error) {
	amount, err := parseAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	allocation, err := s.allocationRepo.FindByIDForTenant(ctx, tenantID, input.AllocationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ALLOCATION_NOT_FOUND", "Allocation not found")
		}
		s.logger.Error("Failed to find allocation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find allocation")
	}
	if allocation.Status == fees.AllocationStatusWaived {
		return nil, shared.NewDomainError("ALLOCATION_WAIVED", "Cannot record a payment against a waived allocation")
	}

	lateFee, err := s.lateFeeFor(ctx, tenantID, allocation)
	if err != nil {
		return nil, err
	}

	payment, err := fees.NewFeePayment(allocation, amount, lateFee, fees.PaymentMethod(input.Method))
	if err != nil {
		return nil, err
	}
	if input.RecordedBy != nil {
		payment.WithRecordedBy(*input.RecordedBy)
	}
	if input.Notes != "" {
		payment.WithNotes(input.Notes)
	}

	result, err := s.ledger.RecordPayment(ctx, tenantID, fees.LedgerEntry{
		AllocationID: input.AllocationID,
		Payment:      payment,
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		s.logger.Error("Failed to record payment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record payment")
	}

	if result.Overpaid {
		s.logger.Warn("Overpayment recorded",
			zap.String("tenant_id", tenantID.String()),
			zap.String("allocation_id", input.AllocationID.String()),
			zap.String("receipt_number", result.Payment.ReceiptNumber),
			zap.String("amount", amount.StringFixed(2)))
	} else {
		s.logger.Info("Payment recorded",
			zap.String("tenant_id", tenantID.String()),
			zap.String("allocation_id", input.AllocationID.String()),
			zap.String("receipt_number", result.Payment.ReceiptNumber),
			zap.String("amount", amount.StringFixed(2)))
	}

	return &RecordPaymentResult{
		Payment:    *toPaymentDTO(result.Payment),
		Allocation: *toAllocationDTO(result.Allocation),
		Overpaid:   result.Overpaid,
	}, nil
}

// GetByReceipt looks a payment up by its receipt number
func (s *PaymentService) GetByReceipt(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*PaymentDTO, error) {
	payment, err := s.paymentRepo.FindByReceiptNumber(ctx, tenantID, receiptNumber)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found")
		}
		s.logger.Error("Failed to find payment by receipt", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find payment")
	}
	return toPaymentDTO(payment), nil
}

// GetByID retrieves a payment
func (s *PaymentService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PaymentDTO, error) {
	payment, err := s.findPayment(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toPaymentDTO(payment), nil
}

// ListForAllocation retrieves the payments against one allocation
func (s *PaymentService) ListForAllocation(ctx context.Context, tenantID, allocationID uuid.UUID) ([]PaymentDTO, error) {
	payments, err := s.paymentRepo.FindByAllocation(ctx, tenantID, allocationID)
	if err != nil {
		s.logger.Error("Failed to list payments", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list payments")
	}
	dtos := make([]PaymentDTO, len(payments))
	for i := range payments {
		dtos[i] = *toPaymentDTO(&payments[i])
	}
	return dtos, nil
}

// Void soft deletes a payment for correction. The entry stays in the
// table and its receipt number is never reused.
func (s *PaymentService) Void(ctx context.Context, tenantID, id uuid.UUID) error {
	payment, err := s.findPayment(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.paymentRepo.SoftDelete(ctx, tenantID, id); err != nil {
		s.logger.Error("Failed to void payment", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to void payment")
	}

	s.logger.Info("Payment voided",
		zap.String("tenant_id", tenantID.String()),
		zap.String("payment_id", id.String()),
		zap.String("receipt_number", payment.ReceiptNumber))

	return nil
}

// lateFeeFor derives the late fee owed on a payment made now
func (s *PaymentService) lateFeeFor(ctx context.Context, tenantID uuid.UUID, allocation *fees.StudentFeeAllocation) (decimal.Decimal, error) {
	structure, err := s.structureRepo.FindByIDForTenant(ctx, tenantID, allocation.FeeStructureID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// structure deleted after allocation; the frozen amounts stand
			return decimal.Zero, nil
		}
		s.logger.Error("Failed to find fee structure", zap.Error(err))
		return decimal.Zero, shared.NewDomainError("INTERNAL_ERROR", "Failed to find fee structure")
	}
	if structure.IsLate(time.Now()) {
		return structure.LateFee, nil
	}
	return decimal.Zero, nil
}

func (s *PaymentService) findPayment(ctx context.Context, tenantID, id uuid.UUID) (*fees.FeePayment, error) {
	payment, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found")
		}
		s.logger.Error("Failed to find payment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find payment")
	}
	return payment, nil
}
