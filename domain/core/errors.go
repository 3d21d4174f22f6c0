package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound           = errors.New("resource not found")
	ErrStreamNotFound     = fmt.Errorf("%w: stream", ErrNotFound)
	ErrMethodNotFound     = fmt.Errorf("%w: method", ErrNotFound)
	ErrCheckpointNotFound = fmt.Errorf("%w: checkpoint", ErrNotFound)

	// Validation errors
	ErrInvalidShape   = errors.New("invalid shape")
	ErrInvalidState   = errors.New("invalid generator state")
	ErrInvalidBounds  = errors.New("invalid distribution bounds")
	ErrSeedOutOfRange = errors.New("seed must be between 0 and 2**32 - 1")
	ErrNilGenerator   = errors.New("generator is nil")
	ErrForeignDraw    = errors.New("draw belongs to a different registry")

	// Lifecycle errors
	ErrUninitialized = errors.New("random stream used before initialize")
)

// Error constructors with context
func NewStreamNotFoundError(key StreamKey) error {
	return fmt.Errorf("%w: %s", ErrStreamNotFound, key)
}

func NewUninitializedError(key StreamKey) error {
	return fmt.Errorf("%w: stream %s has no generator", ErrUninitialized, key)
}

func NewShapeError(shape []int, reason string) error {
	return fmt.Errorf("%w %v: %s", ErrInvalidShape, shape, reason)
}

func NewStateError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidShape) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrInvalidBounds) ||
		errors.Is(err, ErrSeedOutOfRange) ||
		errors.Is(err, ErrNilGenerator) ||
		errors.Is(err, ErrForeignDraw)
}

func IsUninitializedError(err error) bool {
	return errors.Is(err, ErrUninitialized)
}
