package identity

import (
	"github.com/schoolhub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeUser = "User"

// Event type constants
const (
	EventTypeUserCreated  = "UserCreated"
	EventTypeUserDeleted  = "UserDeleted"
	EventTypeUserRestored = "UserRestored"
)

// UserCreatedEvent is published when a new user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Platform bool   `json:"platform"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID, user.eventTenantID()),
		Username:        user.Username,
		Email:           user.Email,
		Role:            user.Role,
		Platform:        user.IsPlatform(),
	}
}

// UserDeletedEvent is published when a user is soft-deleted
type UserDeletedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

// NewUserDeletedEvent creates a new UserDeletedEvent
func NewUserDeletedEvent(user *User) *UserDeletedEvent {
	return &UserDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeleted, AggregateTypeUser, user.ID, user.eventTenantID()),
		Username:        user.Username,
	}
}

// UserRestoredEvent is published when a soft-deleted user is restored
type UserRestoredEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

// NewUserRestoredEvent creates a new UserRestoredEvent
func NewUserRestoredEvent(user *User) *UserRestoredEvent {
	return &UserRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRestored, AggregateTypeUser, user.ID, user.eventTenantID()),
		Username:        user.Username,
	}
}
