package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"innoevent/internal/domain"
	"innoevent/internal/reliability/retry"
)

// ledgerMetrics is the slice of the observability context the ledger reports
// to. A nil value disables reporting.
type ledgerMetrics interface {
	IncRegistration()
	IncCancellation()
	IncRegistrationFailed(reason string)
}

type ledgerService struct {
	userRepo  domain.UserRepository
	regRepo   domain.RegistrationRepository
	logger    *slog.Logger
	metrics   ledgerMetrics
	retryCfg  retry.Config
	retryable func(error) bool
}

// NewLedgerService creates a LedgerService. retryable classifies errors from
// the registration repository as transient transaction conflicts; registration
// attempts failing that way are retried with backoff before giving up with
// ErrConflict.
func NewLedgerService(
	userRepo domain.UserRepository,
	regRepo domain.RegistrationRepository,
	logger *slog.Logger,
	metrics ledgerMetrics,
	retryable func(error) bool,
) domain.LedgerService {
	return &ledgerService{
		userRepo:  userRepo,
		regRepo:   regRepo,
		logger:    logger,
		metrics:   metrics,
		retryCfg:  retry.DefaultConfig(),
		retryable: retryable,
	}
}

func (s *ledgerService) Register(ctx context.Context, userID, eventID string) (*domain.Registration, error) {
	// The HTTP contract reports a missing user distinctly from a missing
	// event, so the user is checked up front; everything seat-related
	// happens inside the repository transaction.
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	reg, err := retry.Do(ctx, s.retryCfg, s.logger, "register", s.retryable,
		func(ctx context.Context) (*domain.Registration, error) {
			return s.regRepo.Register(ctx, userID, eventID, time.Now())
		})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			return nil, domain.ErrEventNotFound
		case errors.Is(err, domain.ErrAlreadyRegistered):
			s.reportFailure("already_registered")
			return nil, domain.ErrAlreadyRegistered
		case errors.Is(err, domain.ErrCapacityExceeded):
			s.reportFailure("capacity_exceeded")
			return nil, domain.ErrCapacityExceeded
		case s.retryable(err):
			s.reportFailure("conflict")
			s.logger.Warn("registration retries exhausted", "user_id", userID, "event_id", eventID, "err", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrConflict, err)
		default:
			return nil, fmt.Errorf("create registration: %w", err)
		}
	}

	if s.metrics != nil {
		s.metrics.IncRegistration()
	}
	s.logger.Info("user registered for event", "user_id", userID, "event_id", eventID, "registration_id", reg.ID)
	return reg, nil
}

func (s *ledgerService) Cancel(ctx context.Context, registrationID string) error {
	if err := s.regRepo.Cancel(ctx, registrationID); err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return domain.ErrRegistrationNotFound
		}
		return fmt.Errorf("cancel registration: %w", err)
	}
	if s.metrics != nil {
		s.metrics.IncCancellation()
	}
	s.logger.Info("registration cancelled", "registration_id", registrationID)
	return nil
}

func (s *ledgerService) ListForUser(ctx context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	items, err := s.regRepo.ListByUserWithEvent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if items == nil {
		items = []*domain.RegistrationWithEvent{}
	}
	return items, nil
}

func (s *ledgerService) ListForEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	regs, err := s.regRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

func (s *ledgerService) reportFailure(reason string) {
	if s.metrics != nil {
		s.metrics.IncRegistrationFailed(reason)
	}
}
