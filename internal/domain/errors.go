package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrInvalidSeatCount = errors.New("you can book between 1 to 2 seats per event")
	ErrEventClosed      = errors.New("cannot book for an event that has already started or completed")
	ErrDuplicateBooking = errors.New("you already have a booking for this event")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrEventStarted     = errors.New("cannot cancel booking for an event that has already started")

	ErrHasActiveBookings = errors.New("cannot delete event with active bookings")

	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrValidation       = errors.New("validation failed")

	ErrForbidden          = errors.New("not authorized to perform this action")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// CapacityExceededError reports the seats still available at the time the
// booking was rejected. errors.Is(err, ErrCapacityExceeded) matches it.
type CapacityExceededError struct {
	Available int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("only %d seats available", e.Available)
}

func (e *CapacityExceededError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// validationError keeps client-facing messages clean while still matching
// ErrValidation for status mapping.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }

func NewValidationError(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
