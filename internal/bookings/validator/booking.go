package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"storago/pkg/logger"
	"storago/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate       *validator.Validate
	logger         *logger.Logger
	maxSpanDays    int
	allowPastStart bool
}

func NewBookingValidator(log *logger.Logger, maxSpanDays int) *BookingValidator {
	return &BookingValidator{
		validate:    validator.New(),
		logger:      log,
		maxSpanDays: maxSpanDays,
	}
}

// ValidateRequest checks a booking request before admission. Dates must
// already be normalized to UTC midnight; "now" is the admission instant.
func (v *BookingValidator) ValidateRequest(booking *model.Booking, now time.Time) error {
	if err := v.validate.StructExcept(booking, "Status", "TotalCost"); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.ValidateDateRange(booking.StartDate, booking.EndDate, now)
}

// ValidateDateRange enforces the shared date rules: end after start, start
// not in the past, and span within the configured maximum.
func (v *BookingValidator) ValidateDateRange(startDate, endDate, now time.Time) error {
	var errs ValidationErrors

	if !endDate.After(startDate) {
		errs = append(errs, ValidationError{
			Field:   "EndDate",
			Message: "end_date must be after start_date",
		})
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if startDate.Before(today) {
		errs = append(errs, ValidationError{
			Field:   "StartDate",
			Message: "start_date cannot be in the past",
		})
	}

	if v.maxSpanDays > 0 && endDate.After(startDate.AddDate(0, 0, v.maxSpanDays)) {
		errs = append(errs, ValidationError{
			Field:   "EndDate",
			Message: fmt.Sprintf("booking cannot span more than %d days", v.maxSpanDays),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateStatusFilter accepts an empty filter or one of the known statuses.
func (v *BookingValidator) ValidateStatusFilter(status string) error {
	switch status {
	case "", model.StatusUpcoming, model.StatusActive, model.StatusCompleted, model.StatusCancelled:
		return nil
	}
	return ValidationErrors{
		ValidationError{
			Field:   "Status",
			Message: "status must be one of: upcoming, active, completed, cancelled",
		},
	}
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
