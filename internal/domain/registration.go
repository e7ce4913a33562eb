package domain

import (
	"context"
	"time"
)

// Registration binds one user to one event. The (user_id, event_id) pair is
// unique; registrations are immutable once created.
// swagger:model Registration
type Registration struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	EventID      string    `json:"event_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// RegistrationWithEvent bundles a registration with its event for presentation.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// RegistrationRepository defines storage operations for registrations.
//
// Register runs the whole critical section in one transaction: it takes a
// row-level lock on the event, checks event existence, the duplicate
// constraint, and remaining capacity (in that order), then inserts the row.
// It returns ErrEventNotFound, ErrAlreadyRegistered, or ErrCapacityExceeded
// accordingly.
type RegistrationRepository interface {
	Register(ctx context.Context, userID, eventID string, registeredAt time.Time) (*Registration, error)
	GetByID(ctx context.Context, id string) (*Registration, error)
	Cancel(ctx context.Context, id string) error
	ListByUserWithEvent(ctx context.Context, userID string) ([]*RegistrationWithEvent, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Registration, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
}

// LedgerService enforces the seat-capacity and duplicate-registration
// invariants for event registration.
type LedgerService interface {
	// Register registers the user for the event. Check precedence:
	// user exists, event exists, not already registered, seats available.
	Register(ctx context.Context, userID, eventID string) (*Registration, error)
	// Cancel deletes the registration, restoring one seat.
	Cancel(ctx context.Context, registrationID string) error
	// ListForUser returns the user's registrations with their events.
	// Registrations whose event has been deleted are omitted.
	ListForUser(ctx context.Context, userID string) ([]*RegistrationWithEvent, error)
	// ListForEvent returns all registrations held against the event.
	ListForEvent(ctx context.Context, eventID string) ([]*Registration, error)
}
