package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/fees"
	"github.com/schoolhub/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// receiptMaxAttempts bounds the receipt number retry loop. Two writers
// racing on the same sequence is resolved on the first retry; more
// collisions than this means something is broken.
const receiptMaxAttempts = 3

// GormLedger implements the fees.Ledger transactional boundary: the
// payment insert and the allocation update happen in one transaction,
// with the allocation row locked for the read-modify-write. Receipt
// numbers are a per-tenant, per-year sequence; a uniqueness collision
// with a concurrent writer is retried with a fresh number.
type GormLedger struct {
	db *gorm.DB
}

// NewGormLedger creates a new GormLedger
func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

// RecordPayment records a payment and advances its allocation atomically
func (l *GormLedger) RecordPayment(ctx context.Context, tenantID uuid.UUID, entry fees.LedgerEntry) (*fees.LedgerResult, error) {
	if entry.Payment == nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment is required")
	}

	var result *fees.LedgerResult
	var lastErr error
	for attempt := 0; attempt < receiptMaxAttempts; attempt++ {
		result, lastErr = l.recordOnce(ctx, tenantID, entry)
		if lastErr == nil {
			return result, nil
		}
		if !isUniqueViolation(lastErr) {
			return nil, lastErr
		}
		// Receipt number collided with a concurrent writer; clear it so
		// the next attempt assigns a fresh one.
		entry.Payment.ReceiptNumber = ""
	}
	return nil, fmt.Errorf("recording payment: %w", lastErr)
}

func (l *GormLedger) recordOnce(ctx context.Context, tenantID uuid.UUID, entry fees.LedgerEntry) (*fees.LedgerResult, error) {
	var result fees.LedgerResult
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var allocation fees.StudentFeeAllocation
		if err := forUpdate(tx).
			Where("tenant_id = ? AND id = ?", tenantID, entry.AllocationID).
			First(&allocation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		payment := entry.Payment
		overpaid, err := allocation.ApplyPayment(payment.Amount)
		if err != nil {
			return err
		}
		if overpaid {
			payment.FlagOverpayment()
		}

		if payment.ReceiptNumber == "" {
			receipt, err := l.nextReceiptNumber(tx, tenantID, payment.PaidAt.Year())
			if err != nil {
				return err
			}
			if err := payment.AssignReceiptNumber(receipt); err != nil {
				return err
			}
		}

		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		if err := tx.Save(&allocation).Error; err != nil {
			return err
		}

		result = fees.LedgerResult{
			Payment:    payment,
			Allocation: &allocation,
			Overpaid:   overpaid,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// nextReceiptNumber finds the highest sequence issued for the tenant
// and calendar year and returns the next one. Receipt numbers are
// zero-padded to fixed width, so the lexicographic maximum is the
// numeric maximum. Voided payments keep their rows, so a voided
// receipt number is never handed out again.
func (l *GormLedger) nextReceiptNumber(tx *gorm.DB, tenantID uuid.UUID, year int) (string, error) {
	var latest string
	err := tx.Model(&fees.FeePayment{}).
		Select("receipt_number").
		Where("tenant_id = ? AND receipt_number LIKE ?", tenantID, fmt.Sprintf("RCP-%d-%%", year)).
		Order("receipt_number DESC").
		Limit(1).
		Scan(&latest).Error
	if err != nil {
		return "", err
	}

	sequence := 1
	if latest != "" {
		prev, err := fees.ParseReceiptSequence(latest, year)
		if err != nil {
			return "", err
		}
		sequence = prev + 1
	}
	return fees.FormatReceiptNumber(year, sequence), nil
}

// forUpdate adds a row lock to the query. SQLite has no FOR UPDATE
// syntax and serializes writers at the database level, so the clause
// is skipped there.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// isUniqueViolation reports whether the error is a unique constraint
// violation, across the drivers we run against.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// Ensure GormLedger implements Ledger
var _ fees.Ledger = (*GormLedger)(nil)
