package validator

import (
	"errors"
	"fmt"
	"strings"

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

type StorageUnitValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewStorageUnitValidator(log *logger.Logger) *StorageUnitValidator {
	return &StorageUnitValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *StorageUnitValidator) Validate(unit *model.StorageUnit) error {
	if err := v.validate.Struct(unit); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	if unit.PricePerDay < 0 {
		return ValidationErrors{
			ValidationError{
				Field:   "PricePerDay",
				Message: "price_per_day cannot be negative",
			},
		}
	}

	return nil
}

func (v *StorageUnitValidator) ValidateUpdate(update *model.StorageUnitUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.PricePerDay != nil && *update.PricePerDay < 0 {
		return ValidationErrors{
			ValidationError{
				Field:   "PricePerDay",
				Message: "price_per_day cannot be negative",
			},
		}
	}

	return nil
}

func (v *StorageUnitValidator) ValidateFilter(filter *model.UnitFilter) error {
	if filter == nil {
		return nil
	}

	if filter.MinPrice != nil && *filter.MinPrice < 0 {
		return ValidationErrors{
			ValidationError{Field: "MinPrice", Message: "min_price cannot be negative"},
		}
	}
	if filter.MaxPrice != nil && *filter.MaxPrice < 0 {
		return ValidationErrors{
			ValidationError{Field: "MaxPrice", Message: "max_price cannot be negative"},
		}
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return ValidationErrors{
			ValidationError{Field: "MinPrice", Message: "min_price cannot exceed max_price"},
		}
	}

	return nil
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
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
