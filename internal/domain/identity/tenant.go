package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant (school account)
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusInactive  TenantStatus = "inactive"
	TenantStatusPending   TenantStatus = "pending"   // Created but not yet approved/onboarded
	TenantStatusSuspended TenantStatus = "suspended" // Suspended for billing or policy reasons
)

// IsValid checks if the status is a valid TenantStatus
func (s TenantStatus) IsValid() bool {
	switch s {
	case TenantStatusActive, TenantStatusInactive, TenantStatusPending, TenantStatusSuspended:
		return true
	}
	return false
}

// SubscriptionPlan represents the subscription plan of a tenant
type SubscriptionPlan string

const (
	PlanFree     SubscriptionPlan = "free"
	PlanBasic    SubscriptionPlan = "basic"
	PlanStandard SubscriptionPlan = "standard"
	PlanPremium  SubscriptionPlan = "premium"
)

// IsValid checks if the plan is a valid SubscriptionPlan
func (p SubscriptionPlan) IsValid() bool {
	switch p {
	case PlanFree, PlanBasic, PlanStandard, PlanPremium:
		return true
	}
	return false
}

// IsPaid reports whether the plan requires an active subscription
func (p SubscriptionPlan) IsPaid() bool {
	return p != PlanFree
}

var tenantSlugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Tenant represents a school account, the unit of data isolation in the
// platform. It is the aggregate root for tenant lifecycle operations and
// is managed exclusively by platform super-admins.
type Tenant struct {
	shared.BaseAggregateRoot
	Slug               string           `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name               string           `gorm:"type:varchar(200);not null"`
	Status             TenantStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	Plan               SubscriptionPlan `gorm:"type:varchar(20);not null;default:'free'"`
	SubscriptionEndsAt *time.Time       `gorm:"index"`
	ContactName        string           `gorm:"type:varchar(100)"`
	ContactPhone       string           `gorm:"type:varchar(50)"`
	ContactEmail       string           `gorm:"type:varchar(200)"`
	Address            string           `gorm:"type:text"`
	Notes              string           `gorm:"type:text"`
	DeletedAt          *time.Time       `gorm:"index"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant in pending status
func NewTenant(slug, name string) (*Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if err := validateTenantSlug(slug); err != nil {
		return nil, err
	}
	if err := validateTenantName(name); err != nil {
		return nil, err
	}

	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Slug:              slug,
		Name:              name,
		Status:            TenantStatusPending,
		Plan:              PlanFree,
	}

	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))

	return tenant, nil
}

// Update updates the tenant's basic information
func (t *Tenant) Update(name string) error {
	if err := validateTenantName(name); err != nil {
		return err
	}

	t.Name = name
	t.Touch()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantUpdatedEvent(t))

	return nil
}

// SetContact sets the tenant's contact information
func (t *Tenant) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if email != "" && len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	t.ContactName = contactName
	t.ContactPhone = phone
	t.ContactEmail = email
	t.Touch()
	t.IncrementVersion()

	return nil
}

// ChangeStatus transitions the tenant to a new status
func (t *Tenant) ChangeStatus(status TenantStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid tenant status")
	}
	if t.Status == status {
		return nil
	}

	oldStatus := t.Status
	t.Status = status
	t.Touch()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantStatusChangedEvent(t, oldStatus, status))

	return nil
}

// Activate moves the tenant to active status
func (t *Tenant) Activate() error {
	return t.ChangeStatus(TenantStatusActive)
}

// Suspend moves the tenant to suspended status
func (t *Tenant) Suspend() error {
	return t.ChangeStatus(TenantStatusSuspended)
}

// ChangePlan changes the tenant's subscription plan. Moving to a paid plan
// requires an expiry date; the free plan never expires and clears it.
func (t *Tenant) ChangePlan(plan SubscriptionPlan, endsAt *time.Time) error {
	if !plan.IsValid() {
		return shared.NewDomainError("INVALID_PLAN", "Invalid subscription plan")
	}
	if plan.IsPaid() && endsAt == nil {
		return shared.NewDomainError("SUBSCRIPTION_END_REQUIRED", "Paid plans require a subscription end date")
	}

	oldPlan := t.Plan
	t.Plan = plan
	if plan.IsPaid() {
		t.SubscriptionEndsAt = endsAt
	} else {
		t.SubscriptionEndsAt = nil
	}
	t.Touch()
	t.IncrementVersion()

	if oldPlan != plan {
		t.AddDomainEvent(NewTenantPlanChangedEvent(t, oldPlan, plan))
	}

	return nil
}

// ExtendSubscription pushes the subscription end date forward by the
// given number of days, anchored to the later of now and the current end.
func (t *Tenant) ExtendSubscription(days int) error {
	if days <= 0 {
		return shared.NewDomainError("INVALID_EXTENSION", "Extension days must be positive")
	}
	if !t.Plan.IsPaid() {
		return shared.NewDomainError("FREE_PLAN_NO_EXPIRY", "Free plan subscriptions do not expire")
	}

	anchor := time.Now()
	if t.SubscriptionEndsAt != nil && t.SubscriptionEndsAt.After(anchor) {
		anchor = *t.SubscriptionEndsAt
	}
	ends := anchor.AddDate(0, 0, days)
	t.SubscriptionEndsAt = &ends
	t.Touch()
	t.IncrementVersion()

	return nil
}

// IsSubscriptionActive reports whether the subscription is currently
// active. The free plan never expires; for paid plans the expiry date is
// authoritative.
func (t *Tenant) IsSubscriptionActive() bool {
	if !t.Plan.IsPaid() {
		return true
	}
	return t.SubscriptionEndsAt != nil && t.SubscriptionEndsAt.After(time.Now())
}

// IsOperational reports whether tenant-scoped requests should be served
func (t *Tenant) IsOperational() bool {
	return t.Status == TenantStatusActive && t.IsSubscriptionActive()
}

// MarkDeleted stamps the tenant as deleted and records the deletion
// event. The caller must have verified the tenant owns no users;
// deletion is blocked otherwise.
func (t *Tenant) MarkDeleted() {
	now := time.Now()
	t.DeletedAt = &now
	t.Touch()
	t.AddDomainEvent(NewTenantDeletedEvent(t))
}

func validateTenantSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Tenant slug cannot be empty")
	}
	if len(slug) > 100 {
		return shared.NewDomainError("INVALID_SLUG", "Tenant slug cannot exceed 100 characters")
	}
	if !tenantSlugPattern.MatchString(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Tenant slug can only contain lowercase letters, digits and hyphens")
	}
	return nil
}

func validateTenantName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}
