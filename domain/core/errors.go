package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrSnapshotNotFound = fmt.Errorf("%w: snapshot", ErrNotFound)

	// Analysis errors
	ErrNoData          = errors.New("no matching records")
	ErrInvalidFilter   = errors.New("invalid filter")
	ErrUnknownSelector = errors.New("unknown snapshot selector")
	ErrRebuildFailed   = errors.New("analysis rebuild failed")

	// Ingestion errors
	ErrInvalidRecord = errors.New("invalid passenger record")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewInvalidFilterError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidFilter, field, reason)
}

func NewRebuildError(stage string, err error) error {
	return fmt.Errorf("%w during %s: %w", ErrRebuildFailed, stage, err)
}

func NewInvalidRecordError(row int, reason string) error {
	return fmt.Errorf("%w at row %d: %s", ErrInvalidRecord, row, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsNoDataError(err error) bool {
	return errors.Is(err, ErrNoData)
}

// IsValidationError reports errors caused by caller input rather than by the system
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidFilter) ||
		errors.Is(err, ErrUnknownSelector) ||
		errors.Is(err, ErrInvalidRecord)
}
