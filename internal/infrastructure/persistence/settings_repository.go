package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/settings"
	"github.com/schoolhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSettingsRepository implements the settings Repository using GORM.
// A nil tenant ID addresses the platform scope, stored as a NULL
// tenant_id column.
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Find finds the settings document of one section in a scope
func (r *GormSettingsRepository) Find(ctx context.Context, tenantID *uuid.UUID, section settings.Section) (*settings.Setting, error) {
	var setting settings.Setting
	if err := scopeQuery(r.db.WithContext(ctx), tenantID).
		Where("section = ?", section).
		First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// FindAll finds every written settings document of a scope
func (r *GormSettingsRepository) FindAll(ctx context.Context, tenantID *uuid.UUID) ([]settings.Setting, error) {
	var docs []settings.Setting
	if err := scopeQuery(r.db.WithContext(ctx), tenantID).
		Order("section ASC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Update runs the mutation inside a transaction with the section row
// locked, so two concurrent writers to the same section serialize
// instead of clobbering each other. The row is created on first write.
func (r *GormSettingsRepository) Update(ctx context.Context, tenantID *uuid.UUID, section settings.Section, mutate func(*settings.Setting) error) (*settings.Setting, error) {
	var updated *settings.Setting
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var setting settings.Setting
		err := scopeQuery(forUpdate(tx), tenantID).
			Where("section = ?", section).
			First(&setting).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			fresh, newErr := settings.NewSetting(tenantID, section, nil)
			if newErr != nil {
				return newErr
			}
			setting = *fresh
		case err != nil:
			return err
		}

		if err := mutate(&setting); err != nil {
			return err
		}
		if err := tx.Save(&setting).Error; err != nil {
			return err
		}
		updated = &setting
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes one section document from a scope
func (r *GormSettingsRepository) Delete(ctx context.Context, tenantID *uuid.UUID, section settings.Section) error {
	result := scopeQuery(r.db.WithContext(ctx), tenantID).
		Where("section = ?", section).
		Delete(&settings.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// scopeQuery constrains a query to the platform or one tenant's scope
func scopeQuery(db *gorm.DB, tenantID *uuid.UUID) *gorm.DB {
	query := db.Model(&settings.Setting{})
	if tenantID == nil {
		return query.Where("tenant_id IS NULL")
	}
	return query.Where("tenant_id = ?", *tenantID)
}

// Ensure GormSettingsRepository implements Repository
var _ settings.Repository = (*GormSettingsRepository)(nil)
