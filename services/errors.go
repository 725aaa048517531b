package services

import (
	"errors"
	"fmt"
)

// Sentinel errors the controllers map to HTTP statuses.
var (
	// ErrRoomUnavailable is a contention outcome, not bad input: the room
	// type ran out of inventory between the caller's read and the commit.
	// Callers may retry with different rooms or dates.
	ErrRoomUnavailable = errors.New("room_unavailable")

	ErrNotFound = errors.New("not_found")

	ErrInvalidPaymentMethod = errors.New("invalid payment method: must be CASH or CREDIT")
)

// ValidationError names the offending field. It is always raised before any
// write is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func notFoundErr(entity string, id uint) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}
