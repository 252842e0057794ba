package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	unitserrors "storago/internal/units/errors"
	"storago/internal/units/repository"
	"storago/internal/units/validator"
	"storago/pkg/config"
	apperrors "storago/pkg/errors"
	"storago/pkg/model"
	"storago/pkg/sanitizer"
)

type StorageUnitService interface {
	Create(ctx context.Context, unit *model.StorageUnit) error
	GetByID(ctx context.Context, id string) (*model.StorageUnit, error)
	GetAll(ctx context.Context, filter *model.UnitFilter, limit int, offset int64) ([]*model.StorageUnit, int64, error)
	Update(ctx context.Context, id string, updates *model.StorageUnitUpdate) error
	Delete(ctx context.Context, id string) error
}

// BookingRefCounter reports how many bookings reference a unit. The bookings
// repository satisfies this; the indirection keeps the unit service from
// depending on the bookings package.
type BookingRefCounter interface {
	CountByUnit(ctx context.Context, unitID string) (int64, error)
}

type storageUnitService struct {
	repo        repository.StorageUnitRepository
	bookingRefs BookingRefCounter
	validator   *validator.StorageUnitValidator
	cfg         *config.Config
}

func NewStorageUnitService(
	repo repository.StorageUnitRepository,
	bookingRefs BookingRefCounter,
	validator *validator.StorageUnitValidator,
	cfg *config.Config,
) StorageUnitService {
	return &storageUnitService{
		repo:        repo,
		bookingRefs: bookingRefs,
		validator:   validator,
		cfg:         cfg,
	}
}

func (s *storageUnitService) Create(ctx context.Context, unit *model.StorageUnit) error {
	s.sanitize(unit)

	if err := s.validator.Validate(unit); err != nil {
		s.cfg.Log.Warn("Storage unit validation failed", "name", unit.Name, "error", err)
		return apperrors.Validation("Storage unit validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, unit); err != nil {
		s.cfg.Log.Error("Failed to create storage unit", "name", unit.Name, "error", err)
		return apperrors.Internal("Failed to create storage unit", err)
	}

	s.cfg.Log.Info("Storage unit created successfully",
		"id", unit.ID,
		"name", unit.Name,
		"location", unit.Location,
		"price_per_day", unit.PricePerDay,
	)
	return nil
}

func (s *storageUnitService) GetByID(ctx context.Context, id string) (*model.StorageUnit, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Storage unit ID cannot be empty")
	}

	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, unitserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Storage unit", id)
		}
		if errors.Is(err, unitserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid storage unit ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve storage unit", err)
	}

	return unit, nil
}

func (s *storageUnitService) GetAll(ctx context.Context, filter *model.UnitFilter, limit int, offset int64) ([]*model.StorageUnit, int64, error) {
	s.sanitizeFilter(filter)
	if err := s.validator.ValidateFilter(filter); err != nil {
		return nil, 0, apperrors.Validation("Invalid unit filter", map[string]any{"error": err.Error()})
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var units []*model.StorageUnit
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count storage units", "error", err)
			errCount = apperrors.Internal("Failed to count storage units", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		units, err = s.repo.FindAll(ctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list storage units", "error", err)
			errFind = apperrors.Internal("Failed to retrieve storage units", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return units, count, nil
}

func (s *storageUnitService) Update(ctx context.Context, id string, updates *model.StorageUnitUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Storage unit ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, unitserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Storage unit", id)
		}
		if errors.Is(err, unitserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid storage unit ID format")
		}
		return apperrors.Internal("Failed to check storage unit existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Storage unit update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUnitUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Storage unit validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update storage unit", "id", id, "error", err)
		return apperrors.Internal("Failed to update storage unit", err)
	}

	s.cfg.Log.Info("Storage unit updated successfully", "id", id, "is_available", merged.IsAvailable)
	return nil
}

func (s *storageUnitService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Storage unit ID cannot be empty")
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		refs, err := s.bookingRefs.CountByUnit(sessCtx, id)
		if err != nil {
			return apperrors.Internal("Failed to check bookings referencing storage unit", err)
		}
		if refs > 0 {
			return apperrors.Conflict(fmt.Sprintf(
				"Storage unit is referenced by %d booking(s) and cannot be deleted", refs,
			))
		}

		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, unitserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Storage unit", id)
			}
			if errors.Is(err, unitserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid storage unit ID format")
			}
			return apperrors.Internal("Failed to delete storage unit", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Storage unit deleted successfully", "id", id)
	return nil
}

// --- Helpers ---

func (s *storageUnitService) sanitize(u *model.StorageUnit) {
	u.Name = sanitizer.TrimAndNormalize(u.Name)
	u.Location = sanitizer.NormalizeLocation(u.Location)
	u.Size = sanitizer.NormalizeSizeLabel(u.Size)
	u.Description = sanitizer.TrimAndNormalize(u.Description)
}

func (s *storageUnitService) sanitizeFilter(f *model.UnitFilter) {
	if f == nil {
		return
	}
	f.Location = sanitizer.NormalizeLocation(f.Location)
	f.Size = sanitizer.NormalizeSizeLabel(f.Size)
}

func (s *storageUnitService) mergeUnitUpdates(existing *model.StorageUnit, updates *model.StorageUnitUpdate) *model.StorageUnit {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Size != "" {
		merged.Size = updates.Size
	}
	if updates.Location != "" {
		merged.Location = updates.Location
	}
	if updates.PricePerDay != nil {
		merged.PricePerDay = *updates.PricePerDay
	}
	if updates.IsAvailable != nil {
		merged.IsAvailable = *updates.IsAvailable
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}

	return &merged
}
