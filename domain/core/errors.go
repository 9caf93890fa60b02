package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrRunNotFound     = fmt.Errorf("%w: run", ErrNotFound)
	ErrDatasetNotFound = fmt.Errorf("%w: dataset", ErrNotFound)

	// Input errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrRateOutOfRange   = fmt.Errorf("%w: positive rate outside [0, 100]", ErrInvalidInput)
	ErrNegativeTotal    = fmt.Errorf("%w: negative total count", ErrInvalidInput)
	ErrMissingColumn    = fmt.Errorf("%w: required column missing", ErrInvalidInput)
	ErrGroupCardinality = errors.New("unsupported group cardinality")

	// Computation errors
	ErrComputation    = errors.New("statistical computation failed")
	ErrZeroTrials     = fmt.Errorf("%w: group has zero trials", ErrComputation)
	ErrDegenerateData = fmt.Errorf("%w: degenerate contingency table", ErrComputation)
)

// Error constructors with context
func NewInvalidInputError(group string, reason string) error {
	return fmt.Errorf("%w: group %q: %s", ErrInvalidInput, group, reason)
}

func NewCardinalityError(want, got int) error {
	return fmt.Errorf("%w: need exactly %d distinct groups, got %d", ErrGroupCardinality, want, got)
}

func NewComputationError(test string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrComputation, test, reason)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: validation failed for %s: %s", ErrInvalidInput, field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsCardinalityError(err error) bool {
	return errors.Is(err, ErrGroupCardinality)
}

func IsComputationError(err error) bool {
	return errors.Is(err, ErrComputation)
}
