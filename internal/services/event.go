package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"innoevent/internal/domain"
)

const maxTotalSeats = 100_000

type eventMetrics interface {
	IncEventCreated()
}

type eventService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	regRepo        domain.RegistrationRepository
	logger         *slog.Logger
	metrics        eventMetrics
	contextTimeout time.Duration
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	regRepo domain.RegistrationRepository,
	logger *slog.Logger,
	metrics eventMetrics,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		regRepo:        regRepo,
		logger:         logger,
		metrics:        metrics,
		contextTimeout: timeout,
	}
}

func (s *eventService) Create(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if event.TotalSeats <= 0 {
		return fmt.Errorf("%w: total_seats must be positive", domain.ErrInvalidInput)
	}
	if event.TotalSeats > maxTotalSeats {
		return fmt.Errorf("%w: total_seats cannot exceed %d", domain.ErrInvalidInput, maxTotalSeats)
	}

	// Organizer existence is validated once, here; reads do not re-check it.
	if _, err := s.userRepo.GetByID(ctx, event.OrganizerID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("get organizer: %w", err)
	}

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	event.AvailableSeats = event.TotalSeats

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	if s.metrics != nil {
		s.metrics.IncEventCreated()
	}
	s.logger.Info("event created", "event_id", event.ID, "title", event.Title, "event_type", event.EventType, "total_seats", event.TotalSeats)
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, eventType string, p domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, eventType, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list events by organizer: %w", err)
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if upd.TotalSeats != nil {
		if *upd.TotalSeats <= 0 {
			return nil, fmt.Errorf("%w: total_seats must be positive", domain.ErrInvalidInput)
		}
		if *upd.TotalSeats > maxTotalSeats {
			return nil, fmt.Errorf("%w: total_seats cannot exceed %d", domain.ErrInvalidInput, maxTotalSeats)
		}
	}

	event, err := s.eventRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}

	// Shrinking total_seats below the number of held registrations is
	// allowed; the negative availability is the organizer's signal that the
	// event is oversold.
	if event.Oversold {
		s.logger.Warn("event oversold after capacity change",
			"event_id", event.ID,
			"total_seats", event.TotalSeats,
			"available_seats", event.AvailableSeats,
		)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.logger.Warn("event deleted", "event_id", id)
	return nil
}
