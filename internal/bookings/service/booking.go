package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "storago/internal/bookings/errors"
	"storago/internal/bookings/events"
	"storago/internal/bookings/repository"
	"storago/internal/bookings/validator"
	unitserrors "storago/internal/units/errors"
	"storago/pkg/config"
	apperrors "storago/pkg/errors"
	"storago/pkg/model"
	"storago/pkg/sanitizer"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByUser(ctx context.Context, userName, status string, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	CheckAvailability(ctx context.Context, unitID string, startDate, endDate time.Time) (*AvailabilityResult, error)
}

// UnitFinder is the slice of the unit repository the booking service needs.
// The indirection keeps this package from depending on the units package
// beyond its error sentinels.
type UnitFinder interface {
	FindByID(ctx context.Context, id string) (*model.StorageUnit, error)
}

// AvailabilityResult reports whether a unit can take a booking for a date
// range, along with the bookings that block it.
type AvailabilityResult struct {
	UnitID    string           `json:"unit_id"`
	StartDate time.Time        `json:"start_date"`
	EndDate   time.Time        `json:"end_date"`
	Available bool             `json:"available"`
	Conflicts []*model.Booking `json:"conflicts"`
}

type bookingService struct {
	repo      repository.BookingRepository
	locks     repository.BookingLockRepository
	units     UnitFinder
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	locks repository.BookingLockRepository,
	units UnitFinder,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		locks:     locks,
		units:     units,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create admits a booking: the unit must exist and be available, and the
// requested range must not overlap any upcoming or active booking for the
// same unit. The conflict check and the insert run inside one transaction
// under a per-unit advisory lock, so two concurrent requests for the same
// unit cannot both pass the check.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	booking.UserName = sanitizer.NormalizeUserName(booking.UserName)
	booking.StartDate = NormalizeDate(booking.StartDate)
	booking.EndDate = NormalizeDate(booking.EndDate)

	now := s.now()
	if err := s.validator.ValidateRequest(booking, now); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "unit_id", booking.UnitID, "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	unit, err := s.findUnit(ctx, booking.UnitID)
	if err != nil {
		return err
	}
	if !unit.IsAvailable {
		s.cfg.Log.Info("Booking rejected: unit not available", "unit_id", unit.ID)
		return apperrors.UnitUnavailable(unit.ID)
	}

	if err := s.locks.Acquire(ctx, unit.ID); err != nil {
		if errors.Is(err, repository.ErrLockNotAcquired) {
			return apperrors.Conflict("Another booking for this unit is in progress, please retry")
		}
		return apperrors.Internal("Failed to acquire booking lock", err)
	}
	defer func() {
		if releaseErr := s.locks.Release(context.WithoutCancel(ctx), unit.ID); releaseErr != nil {
			s.cfg.Log.Error("Failed to release booking lock", "unit_id", unit.ID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		conflicts, err := s.repo.FindOverlapping(sessCtx, unit.ID, booking.StartDate, booking.EndDate, "")
		if err != nil {
			return apperrors.Internal("Failed to check booking conflicts", err)
		}
		if len(conflicts) > 0 {
			return apperrors.Conflict("Requested dates overlap an existing booking").
				WithDetails(map[string]any{
					"unit_id":   unit.ID,
					"conflicts": conflictSummaries(conflicts),
				})
		}

		days := DurationDays(booking.StartDate, booking.EndDate)
		booking.TotalCost = ComputeCost(days, unit.PricePerDay)
		booking.Status = ResolveStatus(booking.StartDate, booking.EndDate, now)

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"unit_id", booking.UnitID,
		"user_name", booking.UserName,
		"total_cost", booking.TotalCost,
		"status", booking.Status,
	)

	if err := s.publisher.BookingCreated(ctx, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking created event", "id", booking.ID, "error", err)
	}
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	s.refreshStatus(ctx, booking)
	return booking, nil
}

func (s *bookingService) ListByUser(ctx context.Context, userName, status string, limit int, offset int64) ([]*model.Booking, int64, error) {
	userName = sanitizer.NormalizeUserName(userName)
	if userName == "" {
		return nil, 0, apperrors.InvalidInput("user_name cannot be empty")
	}
	if err := s.validator.ValidateStatusFilter(status); err != nil {
		return nil, 0, apperrors.Validation("Invalid status filter", map[string]any{"error": err.Error()})
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByUser(ctx, userName, status)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "user_name", userName, "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByUser(ctx, userName, status, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings", "user_name", userName, "error", err)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	for _, booking := range bookings {
		s.refreshStatus(ctx, booking)
	}

	return bookings, count, nil
}

// Cancel marks a booking cancelled. The stored status is refreshed first so
// the decision is made against the booking's real stage: cancelling twice is
// rejected, and a booking whose end date has passed can no longer be
// cancelled.
func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	s.refreshStatus(ctx, booking)

	switch booking.Status {
	case model.StatusCancelled:
		return nil, apperrors.AlreadyCancelled(booking.ID)
	case model.StatusCompleted:
		return nil, apperrors.InvalidTransition("Completed bookings cannot be cancelled")
	}

	if err := s.repo.UpdateStatus(ctx, booking.ID, model.StatusCancelled); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}
	booking.Status = model.StatusCancelled

	s.cfg.Log.Info("Booking cancelled successfully", "id", booking.ID, "unit_id", booking.UnitID)

	if err := s.publisher.BookingCancelled(ctx, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking cancelled event", "id", booking.ID, "error", err)
	}
	return booking, nil
}

// CheckAvailability is the read-only preview of admission: a disabled unit
// is never available, and an available one is free exactly when no upcoming
// or active booking overlaps the range.
func (s *bookingService) CheckAvailability(ctx context.Context, unitID string, startDate, endDate time.Time) (*AvailabilityResult, error) {
	startDate = NormalizeDate(startDate)
	endDate = NormalizeDate(endDate)
	if !endDate.After(startDate) {
		return nil, apperrors.InvalidInput("end_date must be after start_date")
	}

	unit, err := s.findUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}

	result := &AvailabilityResult{
		UnitID:    unit.ID,
		StartDate: startDate,
		EndDate:   endDate,
		Conflicts: []*model.Booking{},
	}

	if !unit.IsAvailable {
		return result, nil
	}

	conflicts, err := s.repo.FindOverlapping(ctx, unit.ID, startDate, endDate, "")
	if err != nil {
		return nil, apperrors.Internal("Failed to check booking conflicts", err)
	}

	result.Conflicts = conflicts
	result.Available = len(conflicts) == 0
	return result, nil
}

// --- Helpers ---

func (s *bookingService) findUnit(ctx context.Context, unitID string) (*model.StorageUnit, error) {
	if unitID == "" {
		return nil, apperrors.InvalidInput("Storage unit ID cannot be empty")
	}

	unit, err := s.units.FindByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, unitserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Storage unit", unitID)
		}
		if errors.Is(err, unitserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid storage unit ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve storage unit", err)
	}
	return unit, nil
}

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

// refreshStatus reconciles a stored status with the one the current time
// implies, persisting the change. Cancelled is terminal and never rewritten.
// A failed persist is logged but not surfaced: the caller still gets the
// freshly derived status.
func (s *bookingService) refreshStatus(ctx context.Context, booking *model.Booking) {
	if booking.Status == model.StatusCancelled {
		return
	}

	resolved := ResolveStatus(booking.StartDate, booking.EndDate, s.now())
	if resolved == booking.Status {
		return
	}

	if err := s.repo.UpdateStatus(ctx, booking.ID, resolved); err != nil {
		s.cfg.Log.Warn("Failed to persist refreshed booking status",
			"id", booking.ID,
			"from", booking.Status,
			"to", resolved,
			"error", err,
		)
	}
	booking.Status = resolved
}

func conflictSummaries(conflicts []*model.Booking) []map[string]any {
	summaries := make([]map[string]any, 0, len(conflicts))
	for _, c := range conflicts {
		summaries = append(summaries, map[string]any{
			"booking_id": c.ID,
			"start_date": c.StartDate.Format(time.DateOnly),
			"end_date":   c.EndDate.Format(time.DateOnly),
		})
	}
	return summaries
}
