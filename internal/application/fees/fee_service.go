package fees

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/fees"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// FeeService manages what a school charges: categories, structures,
// discounts, and the allocations that assess a student against them.
type FeeService struct {
	categoryRepo   fees.FeeCategoryRepository
	structureRepo  fees.FeeStructureRepository
	discountRepo   fees.DiscountRepository
	allocationRepo fees.AllocationRepository
	logger         *zap.Logger
}

// NewFeeService creates a new fee service
func NewFeeService(
	categoryRepo fees.FeeCategoryRepository,
	structureRepo fees.FeeStructureRepository,
	discountRepo fees.DiscountRepository,
	allocationRepo fees.AllocationRepository,
	logger *zap.Logger,
) *FeeService {
	return &FeeService{
		categoryRepo:   categoryRepo,
		structureRepo:  structureRepo,
		discountRepo:   discountRepo,
		allocationRepo: allocationRepo,
		logger:         logger,
	}
}

// CreateCategoryInput contains input for creating a fee category
type CreateCategoryInput struct {
	Name        string
	Description string
}

// CreateStructureInput contains input for creating a fee structure
type CreateStructureInput struct {
	CategoryID     uuid.UUID
	ClassID        *uuid.UUID
	AcademicYearID uuid.UUID
	Amount         string
	LateFee        string
	GraceDays      int
	DueDate        *time.Time
}

// CreateDiscountInput contains input for creating a discount
type CreateDiscountInput struct {
	Name  string
	Type  string
	Value string
}

// AssignFeeInput contains input for allocating a structure to a student
type AssignFeeInput struct {
	StudentID      uuid.UUID
	FeeStructureID uuid.UUID
	DiscountID     *uuid.UUID
}

// CreateCategory creates a fee category
func (s *FeeService) CreateCategory(ctx context.Context, tenantID uuid.UUID, input CreateCategoryInput) (*FeeCategoryDTO, error) {
	category, err := fees.NewFeeCategory(tenantID, input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		s.logger.Error("Failed to save fee category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create fee category")
	}
	return toFeeCategoryDTO(category), nil
}

// ListCategories retrieves the tenant's fee categories
func (s *FeeService) ListCategories(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]FeeCategoryDTO, error) {
	categories, err := s.categoryRepo.FindAllForTenant(ctx, tenantID, filter.ToSharedFilter())
	if err != nil {
		s.logger.Error("Failed to list fee categories", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list fee categories")
	}
	dtos := make([]FeeCategoryDTO, len(categories))
	for i := range categories {
		dtos[i] = *toFeeCategoryDTO(&categories[i])
	}
	return dtos, nil
}

// DeactivateCategory retires a category from new structures
func (s *FeeService) DeactivateCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (*FeeCategoryDTO, error) {
	category, err := s.findCategory(ctx, tenantID, categoryID)
	if err != nil {
		return nil, err
	}
	category.Deactivate()
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		s.logger.Error("Failed to deactivate fee category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to deactivate fee category")
	}
	return toFeeCategoryDTO(category), nil
}

// CreateStructure fixes an amount for a category, class and year
func (s *FeeService) CreateStructure(ctx context.Context, tenantID uuid.UUID, input CreateStructureInput) (*FeeStructureDTO, error) {
	category, err := s.findCategory(ctx, tenantID, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if !category.Active {
		return nil, shared.NewDomainError("CATEGORY_INACTIVE", "Cannot add structures to an inactive category")
	}

	amount, err := parseAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	structure, err := fees.NewFeeStructure(tenantID, input.CategoryID, input.AcademicYearID, input.ClassID, amount)
	if err != nil {
		return nil, err
	}
	if input.LateFee != "" {
		lateFee, err := parseAmount(input.LateFee)
		if err != nil {
			return nil, err
		}
		if err := structure.SetLateFee(lateFee, input.GraceDays); err != nil {
			return nil, err
		}
	}
	if input.DueDate != nil {
		structure.SetDueDate(*input.DueDate)
	}

	if err := s.structureRepo.Save(ctx, structure); err != nil {
		s.logger.Error("Failed to save fee structure", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create fee structure")
	}

	s.logger.Info("Fee structure created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("structure_id", structure.ID.String()),
		zap.String("amount", amount.StringFixed(2)))

	return toFeeStructureDTO(structure), nil
}

// ListStructures retrieves the tenant's fee structures
func (s *FeeService) ListStructures(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]FeeStructureDTO, error) {
	structures, err := s.structureRepo.FindAllForTenant(ctx, tenantID, filter.ToSharedFilter())
	if err != nil {
		s.logger.Error("Failed to list fee structures", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list fee structures")
	}
	dtos := make([]FeeStructureDTO, len(structures))
	for i := range structures {
		dtos[i] = *toFeeStructureDTO(&structures[i])
	}
	return dtos, nil
}

// ListApplicableStructures retrieves the structures a student in the
// given class would be assessed against for the year.
func (s *FeeService) ListApplicableStructures(ctx context.Context, tenantID, academicYearID, classID uuid.UUID) ([]FeeStructureDTO, error) {
	structures, err := s.structureRepo.FindApplicable(ctx, tenantID, academicYearID, classID)
	if err != nil {
		s.logger.Error("Failed to list applicable structures", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list applicable structures")
	}
	dtos := make([]FeeStructureDTO, len(structures))
	for i := range structures {
		dtos[i] = *toFeeStructureDTO(&structures[i])
	}
	return dtos, nil
}

// CreateDiscount creates a reusable discount
func (s *FeeService) CreateDiscount(ctx context.Context, tenantID uuid.UUID, input CreateDiscountInput) (*DiscountDTO, error) {
	value, err := parseAmount(input.Value)
	if err != nil {
		return nil, err
	}
	discount, err := fees.NewDiscount(tenantID, input.Name, fees.DiscountType(input.Type), value)
	if err != nil {
		return nil, err
	}
	if err := s.discountRepo.Save(ctx, discount); err != nil {
		s.logger.Error("Failed to save discount", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create discount")
	}
	return toDiscountDTO(discount), nil
}

// ListDiscounts retrieves the tenant's discounts
func (s *FeeService) ListDiscounts(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]DiscountDTO, error) {
	discounts, err := s.discountRepo.FindAllForTenant(ctx, tenantID, filter.ToSharedFilter())
	if err != nil {
		s.logger.Error("Failed to list discounts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list discounts")
	}
	dtos := make([]DiscountDTO, len(discounts))
	for i := range discounts {
		dtos[i] = *toDiscountDTO(&discounts[i])
	}
	return dtos, nil
}

// AssignToStudent assesses a student against a fee structure, applying
// an optional discount frozen in at allocation time. One allocation
// exists per (student, structure) pair.
func (s *FeeService) AssignToStudent(ctx context.Context, tenantID uuid.UUID, input AssignFeeInput) (*AllocationDTO, error) {
	exists, err := s.allocationRepo.ExistsForStructure(ctx, tenantID, input.StudentID, input.FeeStructureID)
	if err != nil {
		s.logger.Error("Failed to check existing allocation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check existing allocation")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_ALLOCATED", "Student is already assessed against this fee structure")
	}

	structure, err := s.structureRepo.FindByIDForTenant(ctx, tenantID, input.FeeStructureID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STRUCTURE_NOT_FOUND", "Fee structure not found")
		}
		s.logger.Error("Failed to find fee structure", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find fee structure")
	}

	var discount *fees.Discount
	if input.DiscountID != nil {
		discount, err = s.discountRepo.FindByIDForTenant(ctx, tenantID, *input.DiscountID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("DISCOUNT_NOT_FOUND", "Discount not found")
			}
			s.logger.Error("Failed to find discount", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find discount")
		}
	}

	allocation, err := fees.NewAllocation(structure, input.StudentID, discount)
	if err != nil {
		return nil, err
	}
	if err := s.allocationRepo.Save(ctx, allocation); err != nil {
		s.logger.Error("Failed to save allocation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save allocation")
	}

	s.logger.Info("Fee allocated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("student_id", input.StudentID.String()),
		zap.String("structure_id", input.FeeStructureID.String()),
		zap.String("net_amount", allocation.NetAmount.StringFixed(2)))

	return toAllocationDTO(allocation), nil
}

// ListForStudent retrieves a student's ledger rows
func (s *FeeService) ListForStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]AllocationDTO, error) {
	allocations, err := s.allocationRepo.FindByStudent(ctx, tenantID, studentID)
	if err != nil {
		s.logger.Error("Failed to list allocations", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list allocations")
	}
	dtos := make([]AllocationDTO, len(allocations))
	for i := range allocations {
		dtos[i] = *toAllocationDTO(&allocations[i])
	}
	return dtos, nil
}

// Waive settles an allocation without payment. Terminal.
func (s *FeeService) Waive(ctx context.Context, tenantID, allocationID uuid.UUID) (*AllocationDTO, error) {
	allocation, err := s.findAllocation(ctx, tenantID, allocationID)
	if err != nil {
		return nil, err
	}
	if err := allocation.Waive(); err != nil {
		if errors.Is(err, shared.ErrInvalidState) {
			return nil, shared.NewDomainError("ALREADY_PAID", "A fully paid allocation cannot be waived")
		}
		return nil, err
	}
	if err := s.allocationRepo.Save(ctx, allocation); err != nil {
		s.logger.Error("Failed to waive allocation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to waive allocation")
	}

	s.logger.Info("Allocation waived",
		zap.String("tenant_id", tenantID.String()),
		zap.String("allocation_id", allocationID.String()))

	return toAllocationDTO(allocation), nil
}

// SummaryForStudent aggregates a student's ledger position
func (s *FeeService) SummaryForStudent(ctx context.Context, tenantID, studentID uuid.UUID) (*fees.StudentFeeSummary, error) {
	summary, err := s.allocationRepo.SummaryForStudent(ctx, tenantID, studentID)
	if err != nil {
		s.logger.Error("Failed to summarize student fees", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to summarize student fees")
	}
	return summary, nil
}

func (s *FeeService) findCategory(ctx context.Context, tenantID, id uuid.UUID) (*fees.FeeCategory, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Fee category not found")
		}
		s.logger.Error("Failed to find fee category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find fee category")
	}
	return category, nil
}

func (s *FeeService) findAllocation(ctx context.Context, tenantID, id uuid.UUID) (*fees.StudentFeeAllocation, error) {
	allocation, err := s.allocationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ALLOCATION_NOT_FOUND", "Allocation not found")
		}
		s.logger.Error("Failed to find allocation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find allocation")
	}
	return allocation, nil
}
