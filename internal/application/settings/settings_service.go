// Package settings exposes the configuration store to the transport
// layer: platform-scoped sections for super-admins and tenant-scoped
// sections for school admins.
package settings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/settings"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// SettingDTO represents one section document in API responses
type SettingDTO struct {
	Section   string                 `json:"section"`
	Payload   map[string]interface{} `json:"payload"`
	Version   int64                  `json:"version"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func toSettingDTO(s *settings.Setting) (*SettingDTO, error) {
	payload, err := s.Decode()
	if err != nil {
		return nil, err
	}
	return &SettingDTO{
		Section:   string(s.Section),
		Payload:   payload,
		Version:   s.Version,
		UpdatedAt: s.UpdatedAt,
	}, nil
}

// Service reads and updates settings sections
type Service struct {
	repo   settings.Repository
	logger *zap.Logger
}

// NewService creates a new settings service
func NewService(repo settings.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get retrieves one section for the scope. An unwritten section comes
// back as an empty document rather than an error.
func (s *Service) Get(ctx context.Context, tenantID *uuid.UUID, section string) (*SettingDTO, error) {
	sec := settings.Section(section)
	if !sec.IsValid() {
		return nil, shared.NewDomainError("INVALID_SECTION", "Unknown settings section")
	}
	setting, err := s.repo.Find(ctx, tenantID, sec)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &SettingDTO{Section: section, Payload: map[string]interface{}{}}, nil
		}
		s.logger.Error("Failed to load settings section", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load settings")
	}
	return toSettingDTO(setting)
}

// GetAll retrieves every written section for the scope
func (s *Service) GetAll(ctx context.Context, tenantID *uuid.UUID) ([]SettingDTO, error) {
	docs, err := s.repo.FindAll(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to load settings", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load settings")
	}
	dtos := make([]SettingDTO, 0, len(docs))
	for i := range docs {
		dto, err := toSettingDTO(&docs[i])
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}

// Replace swaps a section's payload wholesale. The repository runs the
// write in a transaction with the row locked, so concurrent writers to
// the same section serialize; other sections are never touched.
func (s *Service) Replace(ctx context.Context, tenantID *uuid.UUID, section string, payload map[string]interface{}) (*SettingDTO, error) {
	return s.update(ctx, tenantID, section, func(doc *settings.Setting) error {
		return doc.Replace(payload)
	})
}

// Patch overlays the given keys onto a section, keeping absent keys
func (s *Service) Patch(ctx context.Context, tenantID *uuid.UUID, section string, patch map[string]interface{}) (*SettingDTO, error) {
	return s.update(ctx, tenantID, section, func(doc *settings.Setting) error {
		return doc.Merge(patch)
	})
}

func (s *Service) update(ctx context.Context, tenantID *uuid.UUID, section string, mutate func(*settings.Setting) error) (*SettingDTO, error) {
	sec := settings.Section(section)
	if !sec.IsValid() {
		return nil, shared.NewDomainError("INVALID_SECTION", "Unknown settings section")
	}
	setting, err := s.repo.Update(ctx, tenantID, sec, mutate)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		s.logger.Error("Failed to update settings section", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update settings")
	}

	scope := "platform"
	if tenantID != nil {
		scope = tenantID.String()
	}
	s.logger.Info("Settings section updated",
		zap.String("scope", scope),
		zap.String("section", section),
		zap.Int64("version", setting.Version))

	return toSettingDTO(setting)
}
