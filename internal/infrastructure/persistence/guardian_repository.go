package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/academic"
	"github.com/schoolhub/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGuardianRepository implements GuardianRepository using GORM.
// The student-guardian link table is owned here: links carry their own
// metadata (relationship, emergency contact, pickup permission) and are
// keyed by the (student, guardian) pair.
type GormGuardianRepository struct {
	db *gorm.DB
}

// NewGormGuardianRepository creates a new GormGuardianRepository
func NewGormGuardianRepository(db *gorm.DB) *GormGuardianRepository {
	return &GormGuardianRepository{db: db}
}

// FindByID finds a guardian by ID within a tenant
func (r *GormGuardianRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*academic.Guardian, error) {
	var guardian academic.Guardian
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&guardian).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &guardian, nil
}

// FindByStudent finds all guardians linked to a student
func (r *GormGuardianRepository) FindByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]*academic.Guardian, error) {
	var guardians []*academic.Guardian
	if err := r.db.WithContext(ctx).
		Joins("JOIN student_guardians sg ON sg.guardian_id = guardians.id").
		Where("sg.tenant_id = ? AND sg.student_id = ?", tenantID, studentID).
		Order("guardians.last_name ASC, guardians.first_name ASC").
		Find(&guardians).Error; err != nil {
		return nil, err
	}
	return guardians, nil
}

// FindAll finds all guardians of a tenant matching the filter
func (r *GormGuardianRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*academic.Guardian, error) {
	var guardians []*academic.Guardian
	query := r.db.WithContext(ctx).Model(&academic.Guardian{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR phone ILIKE ? OR email ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("last_name ASC, first_name ASC")

	if err := query.Find(&guardians).Error; err != nil {
		return nil, err
	}
	return guardians, nil
}

// Save creates or updates a guardian
func (r *GormGuardianRepository) Save(ctx context.Context, guardian *academic.Guardian) error {
	return r.db.WithContext(ctx).Save(guardian).Error
}

// Delete deletes a guardian and its links within a tenant
func (r *GormGuardianRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&academic.StudentGuardian{}, "tenant_id = ? AND guardian_id = ?", tenantID, id).Error; err != nil {
			return err
		}
		result := tx.Delete(&academic.Guardian{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Link creates or refreshes a student-guardian link. Re-linking the
// same pair updates the link metadata instead of failing.
func (r *GormGuardianRepository) Link(ctx context.Context, link *academic.StudentGuardian) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "guardian_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"relationship", "emergency_contact", "pickup_permitted",
			}),
		}).
		Create(link).Error
}

// Unlink removes a student-guardian link
func (r *GormGuardianRepository) Unlink(ctx context.Context, tenantID, studentID, guardianID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&academic.StudentGuardian{},
			"tenant_id = ? AND student_id = ? AND guardian_id = ?", tenantID, studentID, guardianID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindLinks finds the link rows of a student
func (r *GormGuardianRepository) FindLinks(ctx context.Context, tenantID, studentID uuid.UUID) ([]*academic.StudentGuardian, error) {
	var links []*academic.StudentGuardian
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND student_id = ?", tenantID, studentID).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// Ensure GormGuardianRepository implements GuardianRepository
var _ academic.GuardianRepository = (*GormGuardianRepository)(nil)
