package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/identity"
)

// TenantDTO represents tenant data returned to clients
type TenantDTO struct {
	ID                 uuid.UUID  `json:"id"`
	Slug               string     `json:"slug"`
	Name               string     `json:"name"`
	Status             string     `json:"status"`
	Plan               string     `json:"plan"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
	ContactName        string     `json:"contact_name,omitempty"`
	ContactPhone       string     `json:"contact_phone,omitempty"`
	ContactEmail       string     `json:"contact_email,omitempty"`
	Address            string     `json:"address,omitempty"`
	Operational        bool       `json:"operational"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func toTenantDTO(t *identity.Tenant) *TenantDTO {
	return &TenantDTO{
		ID:                 t.ID,
		Slug:               t.Slug,
		Name:               t.Name,
		Status:             string(t.Status),
		Plan:               string(t.Plan),
		SubscriptionEndsAt: t.SubscriptionEndsAt,
		ContactName:        t.ContactName,
		ContactPhone:       t.ContactPhone,
		ContactEmail:       t.ContactEmail,
		Address:            t.Address,
		Operational:        t.IsOperational(),
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

// UserDTO represents user data returned to clients. The password hash
// never leaves the service layer.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    *uuid.UUID `json:"tenant_id,omitempty"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Lifecycle   string     `json:"lifecycle"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toUserDTO(u *identity.User) *UserDTO {
	return &UserDTO{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Phone:       u.Phone,
		Role:        string(u.Role),
		Status:      string(u.Status),
		Lifecycle:   string(u.Lifecycle),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
