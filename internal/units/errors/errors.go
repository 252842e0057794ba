package errors

import "errors"

var (
	ErrNotFound = errors.New("storage unit not found")

	ErrInvalidID = errors.New("invalid storage unit ID format")
)
