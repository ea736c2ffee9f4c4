package academic

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/academic"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// AcademicYearService manages a tenant's academic years
type AcademicYearService struct {
	yearRepo academic.AcademicYearRepository
	logger   *zap.Logger
}

// NewAcademicYearService creates a new academic year service
func NewAcademicYearService(yearRepo academic.AcademicYearRepository, logger *zap.Logger) *AcademicYearService {
	return &AcademicYearService{yearRepo: yearRepo, logger: logger}
}

// CreateAcademicYearInput contains input for creating an academic year
type CreateAcademicYearInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// Create creates an academic year in upcoming status
func (s *AcademicYearService) Create(ctx context.Context, tenantID uuid.UUID, input CreateAcademicYearInput) (*AcademicYearDTO, error) {
	exists, err := s.yearRepo.ExistsByName(ctx, tenantID, input.Name)
	if err != nil {
		s.logger.Error("Failed to check academic year name", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check year name availability")
	}
	if exists {
		return nil, shared.NewDomainError("YEAR_EXISTS", "An academic year with this name already exists")
	}

	year, err := academic.NewAcademicYear(tenantID, input.Name, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if err := s.yearRepo.Save(ctx, year); err != nil {
		s.logger.Error("Failed to save academic year", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create academic year")
	}

	s.logger.Info("Academic year created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("year", year.Name))
	return toAcademicYearDTO(year), nil
}

// GetByID retrieves an academic year
func (s *AcademicYearService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AcademicYearDTO, error) {
	year, err := s.findYear(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toAcademicYearDTO(year), nil
}

// GetCurrent retrieves the tenant's current academic year
func (s *AcademicYearService) GetCurrent(ctx context.Context, tenantID uuid.UUID) (*AcademicYearDTO, error) {
	year, err := s.yearRepo.FindCurrent(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NO_CURRENT_YEAR", "No current academic year is set")
		}
		s.logger.Error("Failed to find current academic year", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find current academic year")
	}
	return toAcademicYearDTO(year), nil
}

// List retrieves a tenant's academic years
func (s *AcademicYearService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]AcademicYearDTO, error) {
	years, err := s.yearRepo.FindAll(ctx, tenantID, filter.ToSharedFilter())
	if err != nil {
		s.logger.Error("Failed to list academic years", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list academic years")
	}
	dtos := make([]AcademicYearDTO, len(years))
	for i, y := range years {
		dtos[i] = *toAcademicYearDTO(y)
	}
	return dtos, nil
}

// SetCurrent makes the given year the tenant's current one. The flip is
// atomic: the previously current year is unset in the same transaction,
// so concurrent calls settle on exactly one winner.
func (s *AcademicYearService) SetCurrent(ctx context.Context, tenantID, yearID uuid.UUID) (*AcademicYearDTO, error) {
	year, err := s.findYear(ctx, tenantID, yearID)
	if err != nil {
		return nil, err
	}
	if year.Status == academic.AcademicYearStatusClosed {
		return nil, shared.NewDomainError("YEAR_CLOSED", "A closed academic year cannot be made current")
	}

	if err := s.yearRepo.SetCurrent(ctx, tenantID, yearID); err != nil {
		s.logger.Error("Failed to set current academic year", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to set current academic year")
	}

	s.logger.Info("Current academic year changed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("year_id", yearID.String()))

	year.MarkCurrent()
	return toAcademicYearDTO(year), nil
}

// Close ends a non-current academic year
func (s *AcademicYearService) Close(ctx context.Context, tenantID, yearID uuid.UUID) (*AcademicYearDTO, error) {
	year, err := s.findYear(ctx, tenantID, yearID)
	if err != nil {
		return nil, err
	}
	if err := year.Close(); err != nil {
		if errors.Is(err, shared.ErrInvalidState) {
			return nil, shared.NewDomainError("YEAR_IS_CURRENT", "The current academic year cannot be closed; set another year current first")
		}
		return nil, err
	}
	if err := s.yearRepo.Save(ctx, year); err != nil {
		s.logger.Error("Failed to close academic year", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to close academic year")
	}
	return toAcademicYearDTO(year), nil
}

// Delete removes an academic year that was never used
func (s *AcademicYearService) Delete(ctx context.Context, tenantID, yearID uuid.UUID) error {
	year, err := s.findYear(ctx, tenantID, yearID)
	if err != nil {
		return err
	}
	if year.IsCurrent {
		return shared.NewDomainError("YEAR_IS_CURRENT", "The current academic year cannot be deleted")
	}
	if err := s.yearRepo.Delete(ctx, tenantID, yearID); err != nil {
		s.logger.Error("Failed to delete academic year", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete academic year")
	}
	return nil
}

func (s *AcademicYearService) findYear(ctx context.Context, tenantID, id uuid.UUID) (*academic.AcademicYear, error) {
	year, err := s.yearRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("YEAR_NOT_FOUND", "Academic year not found")
		}
		s.logger.Error("Failed to find academic year", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find academic year")
	}
	return year, nil
}
