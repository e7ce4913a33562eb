package domain

import "errors"

// Sentinel errors shared across services and repositories. Controllers map
// these onto HTTP statuses and envelope error codes.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")

	// ErrAlreadyRegistered is returned when the user already holds a
	// registration for the event.
	ErrAlreadyRegistered = errors.New("already registered for this event")

	// ErrCapacityExceeded is returned when the event has no available seats.
	ErrCapacityExceeded = errors.New("event has no available seats")

	// ErrConflict is returned when a registration transaction kept failing
	// on serialization conflicts and the retry budget ran out.
	ErrConflict = errors.New("transaction conflict, retries exhausted")

	ErrDuplicateEmail = errors.New("email already in use")
	ErrInvalidInput   = errors.New("invalid input")
)
