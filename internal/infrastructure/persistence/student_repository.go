package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/academic"
	"github.com/schoolhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStudentRepository implements StudentRepository using GORM
type GormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository creates a new GormStudentRepository
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// FindByID finds a student by ID within a tenant
func (r *GormStudentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*academic.Student, error) {
	var student academic.Student
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// FindByUserID finds the student profile linked to a user account
func (r *GormStudentRepository) FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*academic.Student, error) {
	var student academic.Student
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// FindByAdmissionNo finds a student by admission number within a tenant
func (r *GormStudentRepository) FindByAdmissionNo(ctx context.Context, tenantID uuid.UUID, admissionNo string) (*academic.Student, error) {
	var student academic.Student
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND admission_no = ?", tenantID, strings.TrimSpace(admissionNo)).
		First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// FindAll finds all students of a tenant matching the filter
func (r *GormStudentRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*academic.Student, error) {
	var students []*academic.Student
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&academic.Student{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// FindBySection finds all students of a section
func (r *GormStudentRepository) FindBySection(ctx context.Context, tenantID, sectionID uuid.UUID) ([]*academic.Student, error) {
	var students []*academic.Student
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND section_id = ?", tenantID, sectionID).
		Order("last_name ASC, first_name ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// Count counts students of a tenant
func (r *GormStudentRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&academic.Student{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActiveInSection counts active students enrolled in a section.
// Seat accounting uses this count; inactive students free their seat.
func (r *GormStudentRepository) CountActiveInSection(ctx context.Context, tenantID, sectionID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&academic.Student{}).
		Where("tenant_id = ? AND section_id = ? AND status = ?",
			tenantID, sectionID, academic.StudentStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByAdmissionNo checks if a student with the given admission number exists in the tenant
func (r *GormStudentRepository) ExistsByAdmissionNo(ctx context.Context, tenantID uuid.UUID, admissionNo string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&academic.Student{}).
		Where("tenant_id = ? AND admission_no = ?", tenantID, strings.TrimSpace(admissionNo)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a student
func (r *GormStudentRepository) Save(ctx context.Context, student *academic.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

// Delete deletes a student within a tenant
func (r *GormStudentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&academic.Student{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormStudentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR admission_no ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "class_id":
			query = query.Where("class_id = ?", value)
		case "section_id":
			query = query.Where("section_id = ?", value)
		case "academic_year_id":
			query = query.Where("academic_year_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, StudentSortFields, "admission_no")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("admission_no ASC")
	}

	return query
}

// Ensure GormStudentRepository implements StudentRepository
var _ academic.StudentRepository = (*GormStudentRepository)(nil)
