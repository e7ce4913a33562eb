package domain

import (
	"context"
	"time"
)

// Event represents an event with finite seating.
// AvailableSeats is derived on read as total_seats minus the number of
// currently-held registrations; it is never stored as a column. Shrinking
// TotalSeats below the registration count makes it negative, which is
// reported as-is with Oversold set (administrative warning, not clamped).
// swagger:model Event
type Event struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description"`
	EventType      string    `json:"event_type"`
	EventDate      time.Time `json:"event_date"`
	Location       string    `json:"location"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	Oversold       bool      `json:"oversold"`
	OrganizerID    string    `json:"organizer_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(title string, description *string, eventType string, eventDate time.Time, location string, totalSeats int, organizerID string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:          title,
		Description:    description,
		EventType:      eventType,
		EventDate:      eventDate,
		Location:       location,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
		OrganizerID:    organizerID,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
}

// EventUpdate carries an optional value per mutable event field.
type EventUpdate struct {
	Title       *string
	Description *string
	EventType   *string
	EventDate   *time.Time
	Location    *string
	TotalSeats  *int
}

// IsEmpty reports whether no field is set.
func (u EventUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.EventType == nil &&
		u.EventDate == nil && u.Location == nil && u.TotalSeats == nil
}

// EventRepository defines the interface for event storage. All reads project
// the registration count so AvailableSeats and Oversold come back populated.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, eventType string, p PaginationParams) ([]*Event, int, error)
	ListByOrganizerID(ctx context.Context, organizerID string) ([]*Event, error)
	Update(ctx context.Context, id string, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for event management.
type EventService interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, eventType string, p PaginationParams) ([]*Event, int, error)
	ListByOrganizerID(ctx context.Context, organizerID string) ([]*Event, error)
	Update(ctx context.Context, id string, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
}
