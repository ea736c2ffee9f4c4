package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// TenantService handles school account management. Every operation here
// is platform-level: the HTTP layer only routes super-admin principals
// into it.
type TenantService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	logger     *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// CreateTenantInput contains input for creating a tenant
type CreateTenantInput struct {
	Slug         string
	Name         string
	ContactName  string
	ContactPhone string
	ContactEmail string
	Address      string
	Plan         string
	// SubscriptionDays sets the initial paid-plan expiry; ignored for free
	SubscriptionDays int
}

// UpdateTenantInput contains input for updating a tenant
type UpdateTenantInput struct {
	ID           uuid.UUID
	Name         *string
	ContactName  *string
	ContactPhone *string
	ContactEmail *string
	Address      *string
}

// TenantFilter represents filter options for querying tenants
type TenantFilter struct {
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
	Keyword  string
	Status   string
}

// ToSharedFilter converts TenantFilter to shared.Filter
func (f TenantFilter) ToSharedFilter() shared.Filter {
	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	filter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  f.SortBy,
		OrderDir: f.SortDir,
		Search:   f.Keyword,
		Filters:  make(map[string]interface{}),
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	return filter
}

// Create creates a new school account in pending status
func (s *TenantService) Create(ctx context.Context, input CreateTenantInput) (*TenantDTO, error) {
	s.logger.Info("Creating tenant",
		zap.String("slug", input.Slug),
		zap.String("name", input.Name))

	exists, err := s.tenantRepo.ExistsBySlug(ctx, input.Slug)
	if err != nil {
		s.logger.Error("Failed to check tenant slug existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check slug availability")
	}
	if exists {
		return nil, shared.NewDomainError("SLUG_EXISTS", "Tenant slug already exists")
	}

	tenant, err := identity.NewTenant(input.Slug, input.Name)
	if err != nil {
		return nil, err
	}

	if input.ContactName != "" || input.ContactPhone != "" || input.ContactEmail != "" {
		if err := tenant.SetContact(input.ContactName, input.ContactPhone, input.ContactEmail); err != nil {
			return nil, err
		}
	}
	tenant.Address = input.Address

	if input.Plan != "" {
		plan := identity.SubscriptionPlan(input.Plan)
		var endsAt *time.Time
		if plan.IsPaid() {
			days := input.SubscriptionDays
			if days <= 0 {
				days = 30
			}
			t := time.Now().AddDate(0, 0, days)
			endsAt = &t
		}
		if err := tenant.ChangePlan(plan, endsAt); err != nil {
			return nil, err
		}
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to save tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create tenant")
	}

	s.logger.Info("Tenant created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("slug", tenant.Slug))

	return toTenantDTO(tenant), nil
}

// GetByID retrieves a tenant by ID
func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	tenant, err := s.findTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTenantDTO(tenant), nil
}

// GetBySlug retrieves a tenant by its slug
func (s *TenantService) GetBySlug(ctx context.Context, slug string) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		s.logger.Error("Failed to find tenant by slug", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find tenant")
	}
	return toTenantDTO(tenant), nil
}

// List retrieves a paginated list of tenants
func (s *TenantService) List(ctx context.Context, filter TenantFilter) (*shared.Paginated[TenantDTO], error) {
	sharedFilter := filter.ToSharedFilter()

	tenants, err := s.tenantRepo.FindAll(ctx, sharedFilter)
	if err != nil {
		s.logger.Error("Failed to list tenants", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list tenants")
	}
	total, err := s.tenantRepo.Count(ctx, sharedFilter)
	if err != nil {
		s.logger.Error("Failed to count tenants", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count tenants")
	}

	dtos := make([]TenantDTO, len(tenants))
	for i := range tenants {
		dtos[i] = *toTenantDTO(&tenants[i])
	}
	result := shared.NewPaginated(dtos, total, sharedFilter.Page, sharedFilter.PageSize)
	return &result, nil
}

// Update updates a tenant's basic information
func (s *TenantService) Update(ctx context.Context, input UpdateTenantInput) (*TenantDTO, error) {
	tenant, err := s.findTenant(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := tenant.Update(*input.Name); err != nil {
			return nil, err
		}
	}
	contactName := tenant.ContactName
	contactPhone := tenant.ContactPhone
	contactEmail := tenant.ContactEmail
	if input.ContactName != nil {
		contactName = *input.ContactName
	}
	if input.ContactPhone != nil {
		contactPhone = *input.ContactPhone
	}
	if input.ContactEmail != nil {
		contactEmail = *input.ContactEmail
	}
	if err := tenant.SetContact(contactName, contactPhone, contactEmail); err != nil {
		return nil, err
	}
	if input.Address != nil {
		tenant.Address = *input.Address
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to update tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update tenant")
	}
	return toTenantDTO(tenant), nil
}

// Activate moves a tenant to active status
func (s *TenantService) Activate(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	return s.changeStatus(ctx, id, func(t *identity.Tenant) error { return t.Activate() })
}

// Suspend moves a tenant to suspended status. Scoped requests for a
// suspended tenant are refused at the context resolver.
func (s *TenantService) Suspend(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	return s.changeStatus(ctx, id, func(t *identity.Tenant) error { return t.Suspend() })
}

// ChangeStatus transitions a tenant to an arbitrary valid status
func (s *TenantService) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*TenantDTO, error) {
	return s.changeStatus(ctx, id, func(t *identity.Tenant) error {
		return t.ChangeStatus(identity.TenantStatus(status))
	})
}

func (s *TenantService) changeStatus(ctx context.Context, id uuid.UUID, fn func(*identity.Tenant) error) (*TenantDTO, error) {
	tenant, err := s.findTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(tenant); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to change tenant status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to change tenant status")
	}
	s.logger.Info("Tenant status changed",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("status", string(tenant.Status)))
	return toTenantDTO(tenant), nil
}

// ChangePlan changes a tenant's subscription plan
func (s *TenantService) ChangePlan(ctx context.Context, id uuid.UUID, plan string, endsAt *time.Time) (*TenantDTO, error) {
	tenant, err := s.findTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tenant.ChangePlan(identity.SubscriptionPlan(plan), endsAt); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to change tenant plan", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to change tenant plan")
	}
	s.logger.Info("Tenant plan changed",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("plan", plan))
	return toTenantDTO(tenant), nil
}

// ExtendSubscription pushes a paid tenant's expiry forward by days
func (s *TenantService) ExtendSubscription(ctx context.Context, id uuid.UUID, days int) (*TenantDTO, error) {
	tenant, err := s.findTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tenant.ExtendSubscription(days); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to extend tenant subscription", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to extend subscription")
	}
	return toTenantDTO(tenant), nil
}

// Delete soft-deletes a tenant. Deletion is blocked while the tenant
// still owns user accounts; those must be purged first.
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	tenant, err := s.findTenant(ctx, id)
	if err != nil {
		return err
	}

	userCount, err := s.userRepo.CountForTenant(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count tenant users", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to check tenant users")
	}
	if userCount > 0 {
		return shared.NewDomainError("TENANT_HAS_USERS", "Tenant still owns user accounts and cannot be deleted")
	}

	tenant.MarkDeleted()
	if err := s.tenantRepo.SoftDelete(ctx, id); err != nil {
		s.logger.Error("Failed to delete tenant", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete tenant")
	}

	s.logger.Info("Tenant deleted", zap.String("tenant_id", id.String()))
	return nil
}

func (s *TenantService) findTenant(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		s.logger.Error("Failed to find tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find tenant")
	}
	return tenant, nil
}
