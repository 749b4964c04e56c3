package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)

	// Statistical precondition errors
	ErrInsufficientData  = errors.New("insufficient data for analysis")
	ErrDegenerateSamples = errors.New("degenerate samples: zero pooled variance")

	// Option errors
	ErrUnsupportedOption = errors.New("unsupported option")
	ErrInvalidLevel      = errors.New("confidence level outside (0,1)")
	ErrInvalidAlpha      = errors.New("alpha outside (0,1)")

	// Ingestion errors
	ErrNoSampleData   = errors.New("no sample data in source")
	ErrUnknownFormat  = errors.New("unknown sample source format")
	ErrEmptyGroupName = errors.New("empty group name in header")

	// Validation errors
	ErrValidation = errors.New("validation failed")
)

// Error constructors with context
func NewInsufficientDataError(op string, n, min int) error {
	return fmt.Errorf("%w: %s needs at least %d values, got %d", ErrInsufficientData, op, min, n)
}

func NewUnsupportedOptionError(option, value string) error {
	return fmt.Errorf("%w: %s %q", ErrUnsupportedOption, option, value)
}

func NewRunNotFoundError(id string) error {
	return fmt.Errorf("%w: id %s", ErrRunNotFound, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrValidation, field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsUnsupportedOptionError(err error) bool {
	return errors.Is(err, ErrUnsupportedOption)
}

func IsOptionError(err error) bool {
	return errors.Is(err, ErrUnsupportedOption) ||
		errors.Is(err, ErrInvalidLevel) ||
		errors.Is(err, ErrInvalidAlpha)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsInputError(err error) bool {
	return IsInsufficientDataError(err) ||
		IsOptionError(err) ||
		IsValidationError(err) ||
		errors.Is(err, ErrDegenerateSamples)
}
