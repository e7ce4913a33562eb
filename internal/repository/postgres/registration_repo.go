package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"innoevent/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

// IsRetryableTxError reports whether err is a transient transaction failure
// (serialization failure or deadlock) worth retrying.
func IsRetryableTxError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

// Register inserts a registration for (userID, eventID) inside one
// transaction. The event row is locked with FOR UPDATE first, which
// serializes concurrent register/cancel attempts against the same event: two
// callers cannot both observe the last free seat. Check order is
// existence, duplicate, capacity.
func (r *registrationRepository) Register(ctx context.Context, userID, eventID string, registeredAt time.Time) (reg *domain.Registration, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var totalSeats int
	err = tx.QueryRowContext(ctx, `
		SELECT total_seats
		FROM events
		WHERE id = $1
		FOR UPDATE
	`, eventID).Scan(&totalSeats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}

	var existing int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM registrations WHERE user_id = $1 AND event_id = $2
	`, userID, eventID).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("check duplicate registration: %w", err)
	}
	if existing > 0 {
		return nil, domain.ErrAlreadyRegistered
	}

	var taken int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM registrations WHERE event_id = $1
	`, eventID).Scan(&taken)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if totalSeats-taken <= 0 {
		return nil, domain.ErrCapacityExceeded
	}

	reg = &domain.Registration{
		UserID:       userID,
		EventID:      eventID,
		RegisteredAt: registeredAt,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO registrations (user_id, event_id, registered_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, userID, eventID, registeredAt).Scan(&reg.ID)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return reg, nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `
		SELECT id, user_id, event_id, registered_at
		FROM registrations
		WHERE id = $1
	`
	reg := &domain.Registration{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

// Cancel deletes the registration. With derived seat accounting the delete
// alone restores one seat; there is no counter to increment.
func (r *registrationRepository) Cancel(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRegistrationNotFound
	}
	return nil
}

// ListByUserWithEvent returns the user's registrations joined with their
// events. The INNER JOIN omits registrations whose event has been deleted.
func (r *registrationRepository) ListByUserWithEvent(ctx context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	query := `
		SELECT r.id, r.user_id, r.event_id, r.registered_at,
		       e.id, e.title, e.description, e.event_type, e.event_date, e.location,
		       e.total_seats, e.organizer_id, e.created_at, e.updated_at,
		       (SELECT COUNT(*) FROM registrations WHERE event_id = e.id) AS taken
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1
		ORDER BY r.registered_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.RegistrationWithEvent, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		e := &domain.Event{}
		var descNull sql.NullString
		var taken int
		if err := rows.Scan(
			&reg.ID, &reg.UserID, &reg.EventID, &reg.RegisteredAt,
			&e.ID, &e.Title, &descNull, &e.EventType, &e.EventDate, &e.Location,
			&e.TotalSeats, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt,
			&taken,
		); err != nil {
			return nil, err
		}
		if descNull.Valid {
			e.Description = &descNull.String
		}
		deriveSeats(e, taken)
		items = append(items, &domain.RegistrationWithEvent{Registration: reg, Event: e})
	}
	return items, rows.Err()
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	query := `
		SELECT id, user_id, event_id, registered_at
		FROM registrations
		WHERE event_id = $1
		ORDER BY registered_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		if err := rows.Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.RegisteredAt); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *registrationRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
