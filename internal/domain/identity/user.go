package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the operational status of a user
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// IsValid checks if the status is a valid UserStatus
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended:
		return true
	}
	return false
}

// LifecycleState is the explicit deletion lifecycle of a user, modeled as
// a state rather than a bare timestamp column. Restore is defined only
// from SoftDeleted; Purged is terminal.
type LifecycleState string

const (
	LifecycleActive      LifecycleState = "active"
	LifecycleSoftDeleted LifecycleState = "soft_deleted"
	LifecyclePurged      LifecycleState = "purged"
)

// User represents an authenticated principal. A user with a nil TenantID
// is a platform-level user; combined with the super-admin role it is the
// only actor permitted to manage tenants, platform users and global
// settings. All other users belong to exactly one tenant.
type User struct {
	shared.BaseAggregateRoot
	TenantID     *uuid.UUID     `gorm:"type:uuid;index"`
	Username     string         `gorm:"type:varchar(100);not null"`
	Email        string         `gorm:"type:varchar(200);not null"`
	PasswordHash string         `gorm:"type:varchar(255);not null"`
	DisplayName  string         `gorm:"type:varchar(200)"`
	Phone        string         `gorm:"type:varchar(50)"`
	Role         Role           `gorm:"type:varchar(30);not null"`
	Status       UserStatus     `gorm:"type:varchar(20);not null;default:'active'"`
	Lifecycle    LifecycleState `gorm:"type:varchar(20);not null;default:'active'"`
	DeletedAt    *time.Time     `gorm:"index"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewTenantUser creates a user belonging to a tenant. Platform roles are
// rejected: a tenant-scoped user can never hold super-admin.
func NewTenantUser(tenantID uuid.UUID, username, email string, role Role) (*User, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID is required for tenant users")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Invalid role")
	}
	if role.IsPlatform() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Platform roles cannot be assigned to tenant users")
	}
	user, err := newUser(username, email, role)
	if err != nil {
		return nil, err
	}
	tid := tenantID
	user.TenantID = &tid

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// NewPlatformUser creates a platform-level user with no tenant. Only the
// super-admin role is meaningful at platform level.
func NewPlatformUser(username, email string) (*User, error) {
	user, err := newUser(username, email, RoleSuperAdmin)
	if err != nil {
		return nil, err
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

func newUser(username, email string, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) > 100 {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email is required")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Email:             email,
		Role:              role,
		Status:            UserStatusActive,
		Lifecycle:         LifecycleActive,
	}, nil
}

// IsPlatform reports whether the user is a platform-level principal
func (u *User) IsPlatform() bool {
	return u.TenantID == nil
}

// SetPassword hashes and stores the password
func (u *User) SetPassword(plain string) error {
	if len(plain) < 8 {
		return shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.Touch()
	u.IncrementVersion()
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// RecordLogin stores the last successful login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.Touch()
}

// ChangeStatus transitions the user to a new operational status
func (u *User) ChangeStatus(status UserStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid user status")
	}
	if u.Lifecycle != LifecycleActive {
		return shared.ErrInvalidState
	}
	u.Status = status
	u.Touch()
	u.IncrementVersion()
	return nil
}

// CanLogin reports whether the user may authenticate
func (u *User) CanLogin() bool {
	return u.Status == UserStatusActive && u.Lifecycle == LifecycleActive
}

// SoftDelete moves the user to the soft-deleted state
func (u *User) SoftDelete() error {
	if u.Lifecycle != LifecycleActive {
		return shared.ErrInvalidState
	}
	now := time.Now()
	u.Lifecycle = LifecycleSoftDeleted
	u.DeletedAt = &now
	u.Touch()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserDeletedEvent(u))

	return nil
}

// Restore brings a soft-deleted user back. Restore from any other state
// is invalid; purged users are gone for good.
func (u *User) Restore() error {
	if u.Lifecycle != LifecycleSoftDeleted {
		return shared.ErrInvalidState
	}
	u.Lifecycle = LifecycleActive
	u.DeletedAt = nil
	u.Touch()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserRestoredEvent(u))

	return nil
}

// Purge permanently removes a soft-deleted user. The row itself is
// deleted by the repository; the state transition guards ordering.
func (u *User) Purge() error {
	if u.Lifecycle != LifecycleSoftDeleted {
		return shared.ErrInvalidState
	}
	u.Lifecycle = LifecyclePurged
	u.Touch()
	u.IncrementVersion()
	return nil
}

// eventTenantID resolves the tenant for user events; platform users fall
// back to uuid.Nil.
func (u *User) eventTenantID() uuid.UUID {
	if u.TenantID != nil {
		return *u.TenantID
	}
	return uuid.Nil
}
