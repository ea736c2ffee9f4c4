package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// UserService handles user account management inside a tenant, plus the
// platform-level flows for super-admin accounts.
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// CreateUserInput contains input for creating a tenant user
type CreateUserInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
	Phone       string
	Role        string
}

// UpdateUserInput contains input for updating a user's profile
type UpdateUserInput struct {
	DisplayName *string
	Phone       *string
	Email       *string
}

// UserFilter represents filter options for listing users
type UserFilter struct {
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
	Keyword  string
	Role     string
	Status   string
}

// ToSharedFilter converts UserFilter to shared.Filter
func (f UserFilter) ToSharedFilter() shared.Filter {
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
	if f.Role != "" {
		filter.Filters["role"] = f.Role
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	return filter
}

// Create creates a user inside a tenant
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, input CreateUserInput) (*UserDTO, error) {
	if err := s.checkUnique(ctx, input.Username, input.Email); err != nil {
		return nil, err
	}

	user, err := identity.NewTenantUser(tenantID, input.Username, input.Email, identity.Role(input.Role))
	if err != nil {
		return nil, err
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}
	user.DisplayName = input.DisplayName
	user.Phone = input.Phone

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("role", input.Role))

	return toUserDTO(user), nil
}

// CreatePlatformUser creates a super-admin with no tenant
func (s *UserService) CreatePlatformUser(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	if err := s.checkUnique(ctx, input.Username, input.Email); err != nil {
		return nil, err
	}

	user, err := identity.NewPlatformUser(input.Username, input.Email)
	if err != nil {
		return nil, err
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}
	user.DisplayName = input.DisplayName
	user.Phone = input.Phone

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to create platform user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	s.logger.Info("Platform user created", zap.String("user_id", user.ID.String()))
	return toUserDTO(user), nil
}

// GetByID retrieves a user inside a tenant. A lookup with the wrong
// tenant answers not-found, never another tenant's user.
func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserDTO, error) {
	user, err := s.findForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

// List retrieves a paginated list of a tenant's users
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter UserFilter) (*shared.Paginated[UserDTO], error) {
	sharedFilter := filter.ToSharedFilter()

	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, sharedFilter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}
	total, err := s.userRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count users")
	}

	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = *toUserDTO(&users[i])
	}
	result := shared.NewPaginated(dtos, total, sharedFilter.Page, sharedFilter.PageSize)
	return &result, nil
}

// ListPlatformUsers retrieves platform super-admin accounts
func (s *UserService) ListPlatformUsers(ctx context.Context, filter UserFilter) ([]UserDTO, error) {
	users, err := s.userRepo.FindPlatformUsers(ctx, filter.ToSharedFilter())
	if err != nil {
		s.logger.Error("Failed to list platform users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list platform users")
	}
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = *toUserDTO(&users[i])
	}
	return dtos, nil
}

// Update updates a user's profile fields
func (s *UserService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.findForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Email != nil && *input.Email != user.Email {
		existing, err := s.userRepo.FindByEmail(ctx, *input.Email)
		if err == nil && existing.ID != user.ID {
			return nil, shared.NewDomainError("EMAIL_EXISTS", "Email is already in use")
		}
		user.Email = *input.Email
	}
	user.Touch()
	user.IncrementVersion()

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}
	return toUserDTO(user), nil
}

// ChangeStatus transitions a user between active, inactive and suspended
func (s *UserService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*UserDTO, error) {
	user, err := s.findForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.ChangeStatus(identity.UserStatus(status)); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to change user status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to change user status")
	}
	return toUserDTO(user), nil
}

// ChangePassword sets a new password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, tenantID, id uuid.UUID, current, next string) error {
	user, err := s.findForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !user.CheckPassword(current) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	if err := user.SetPassword(next); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to change password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}
	s.logger.Info("User password changed", zap.String("user_id", id.String()))
	return nil
}

// SoftDelete marks a user deleted; the row stays for audit and restore
func (s *UserService) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	user, err := s.findForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := user.SoftDelete(); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to soft-delete user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete user")
	}
	s.logger.Info("User soft-deleted", zap.String("user_id", id.String()))
	return nil
}

// Restore brings a soft-deleted user back to active
func (s *UserService) Restore(ctx context.Context, tenantID, id uuid.UUID) (*UserDTO, error) {
	user, err := s.findForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.Restore(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to restore user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to restore user")
	}
	s.logger.Info("User restored", zap.String("user_id", id.String()))
	return toUserDTO(user), nil
}

// Purge permanently removes a soft-deleted user. This is irreversible;
// only the domain's purged transition unlocks the physical delete.
func (s *UserService) Purge(ctx context.Context, tenantID, id uuid.UUID) error {
	user, err := s.findForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := user.Purge(); err != nil {
		return err
	}
	if err := s.userRepo.Purge(ctx, id); err != nil {
		s.logger.Error("Failed to purge user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to purge user")
	}
	s.logger.Info("User purged", zap.String("user_id", id.String()))
	return nil
}

func (s *UserService) checkUnique(ctx context.Context, username, email string) error {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return shared.NewDomainError("USERNAME_EXISTS", "Username already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check username", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to check username availability")
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return shared.NewDomainError("EMAIL_EXISTS", "Email already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check email", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	return nil
}

func (s *UserService) findForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to find user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find user")
	}
	return user, nil
}
