package settings

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for settings documents. A
// nil tenantID addresses the platform scope.
type Repository interface {
	Find(ctx context.Context, tenantID *uuid.UUID, section Section) (*Setting, error)
	FindAll(ctx context.Context, tenantID *uuid.UUID) ([]Setting, error)
	// Update runs the mutation inside a transaction with the section
	// row locked, so two concurrent writers to the same section
	// serialize instead of clobbering each other. The row is created
	// on first write.
	Update(ctx context.Context, tenantID *uuid.UUID, section Section, mutate func(*Setting) error) (*Setting, error)
	Delete(ctx context.Context, tenantID *uuid.UUID, section Section) error
}
