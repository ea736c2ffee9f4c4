// Package settings holds the structured configuration store: one JSON
// document per (scope, section), where the scope is either the platform
// or a single tenant. Updates replace one section; a section write never
// touches the other sections.
package settings

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// Section names a settings document. The set is closed so a typo cannot
// silently create a new document.
type Section string

const (
	SectionGeneral  Section = "general"
	SectionEmail    Section = "email"
	SectionFeatures Section = "features"
	SectionSecurity Section = "security"
)

// IsValid checks if the section is a known Section
func (s Section) IsValid() bool {
	switch s {
	case SectionGeneral, SectionEmail, SectionFeatures, SectionSecurity:
		return true
	}
	return false
}

// AllSections lists every known section
func AllSections() []Section {
	return []Section{SectionGeneral, SectionEmail, SectionFeatures, SectionSecurity}
}

// Setting is one section's document. TenantID nil means the platform
// scope, writable only by super-admins. The pair (tenant, section) is
// unique.
type Setting struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TenantID  *uuid.UUID     `gorm:"type:uuid;uniqueIndex:idx_settings_scope_section"`
	Section   Section        `gorm:"type:varchar(50);not null;uniqueIndex:idx_settings_scope_section"`
	Payload   datatypes.JSON `gorm:"not null"`
	Version   int64          `gorm:"not null;default:1"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Setting) TableName() string {
	return "settings"
}

// NewSetting creates a section document for a scope
func NewSetting(tenantID *uuid.UUID, section Section, payload map[string]interface{}) (*Setting, error) {
	if !section.IsValid() {
		return nil, shared.NewDomainError("INVALID_SECTION", "Unknown settings section")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PAYLOAD", "Settings payload is not serializable")
	}
	now := time.Now()
	return &Setting{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Section:   section,
		Payload:   datatypes.JSON(raw),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Replace swaps the section's payload wholesale. Last write wins within
// a section; other sections are untouched.
func (s *Setting) Replace(payload map[string]interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return shared.NewDomainError("INVALID_PAYLOAD", "Settings payload is not serializable")
	}
	s.Payload = datatypes.JSON(raw)
	s.Version++
	s.UpdatedAt = time.Now()
	return nil
}

// Merge overlays the given keys onto the current payload, leaving
// absent keys as they were.
func (s *Setting) Merge(patch map[string]interface{}) error {
	current, err := s.Decode()
	if err != nil {
		return err
	}
	for k, v := range patch {
		current[k] = v
	}
	return s.Replace(current)
}

// Decode unmarshals the payload into a generic map
func (s *Setting) Decode() (map[string]interface{}, error) {
	out := make(map[string]interface{})
	if len(s.Payload) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(s.Payload, &out); err != nil {
		return nil, shared.NewDomainError("CORRUPT_PAYLOAD", "Stored settings payload is not valid JSON")
	}
	return out, nil
}

// IsPlatform reports whether the document belongs to the platform scope
func (s *Setting) IsPlatform() bool {
	return s.TenantID == nil
}
