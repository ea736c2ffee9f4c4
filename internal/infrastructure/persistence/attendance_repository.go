package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/academic"
	"github.com/schoolhub/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAttendanceRepository implements AttendanceRepository using GORM
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewGormAttendanceRepository creates a new GormAttendanceRepository
func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// Mark upserts an attendance record on the (student, date) key. Marking
// the same student twice for one day overwrites the earlier record.
func (r *GormAttendanceRepository) Mark(ctx context.Context, record *academic.AttendanceRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "remarks", "marked_by", "section_id", "updated_at",
			}),
		}).
		Create(record).Error
}

// FindByStudentAndDate finds the record of a student for one day
func (r *GormAttendanceRepository) FindByStudentAndDate(ctx context.Context, tenantID, studentID uuid.UUID, date time.Time) (*academic.AttendanceRecord, error) {
	var record academic.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND student_id = ? AND date = ?",
			tenantID, studentID, academic.NormalizeDate(date)).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindBySectionAndDate finds all records of a section for one day
func (r *GormAttendanceRepository) FindBySectionAndDate(ctx context.Context, tenantID, sectionID uuid.UUID, date time.Time) ([]*academic.AttendanceRecord, error) {
	var records []*academic.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND section_id = ? AND date = ?",
			tenantID, sectionID, academic.NormalizeDate(date)).
		Order("student_id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByStudentRange finds a student's records over a date range
func (r *GormAttendanceRepository) FindByStudentRange(ctx context.Context, tenantID, studentID uuid.UUID, from, to time.Time) ([]*academic.AttendanceRecord, error) {
	var records []*academic.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND student_id = ? AND date BETWEEN ? AND ?",
			tenantID, studentID, academic.NormalizeDate(from), academic.NormalizeDate(to)).
		Order("date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Summary aggregates a student's records over a date range in a single
// grouped query.
func (r *GormAttendanceRepository) Summary(ctx context.Context, tenantID, studentID uuid.UUID, from, to time.Time) (*academic.AttendanceSummary, error) {
	var rows []struct {
		Status academic.AttendanceStatus
		Count  int
	}
	if err := r.db.WithContext(ctx).
		Model(&academic.AttendanceRecord{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ? AND student_id = ? AND date BETWEEN ? AND ?",
			tenantID, studentID, academic.NormalizeDate(from), academic.NormalizeDate(to)).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	summary := &academic.AttendanceSummary{StudentID: studentID}
	for _, row := range rows {
		summary.TotalDays += row.Count
		if row.Status.CountsAsPresent() {
			summary.PresentDays += row.Count
		}
		switch row.Status {
		case academic.AttendanceAbsent:
			summary.AbsentDays += row.Count
		case academic.AttendanceLate:
			summary.LateDays += row.Count
		case academic.AttendanceLeave:
			summary.LeaveDays += row.Count
		case academic.AttendanceHalfDay:
			summary.HalfDays += row.Count
		case academic.AttendanceHoliday:
			summary.HolidayCount += row.Count
		}
	}
	return summary, nil
}

// Delete deletes an attendance record within a tenant
func (r *GormAttendanceRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&academic.AttendanceRecord{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAttendanceRepository implements AttendanceRepository
var _ academic.AttendanceRepository = (*GormAttendanceRepository)(nil)
