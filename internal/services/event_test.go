package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innoevent/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[string]*domain.Event
	taken  map[string]int // eventID -> registration count
	nextID int
	err    error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:  make(map[string]*domain.Event),
		taken: make(map[string]int),
	}
}

func (f *fakeEventRepo) derive(e *domain.Event) *domain.Event {
	e.AvailableSeats = e.TotalSeats - f.taken[e.ID]
	e.Oversold = e.AvailableSeats < 0
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	e.ID = fmt.Sprintf("event-%d", f.nextID)
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return f.derive(e), nil
	}
	return nil, domain.ErrEventNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, eventType string, p domain.PaginationParams) ([]*domain.Event, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	out := make([]*domain.Event, 0)
	for _, e := range f.byID {
		if eventType == "" || e.EventType == eventType {
			out = append(out, f.derive(e))
		}
	}
	return out, len(out), nil
}

func (f *fakeEventRepo) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	out := make([]*domain.Event, 0)
	for _, e := range f.byID {
		if e.OrganizerID == organizerID {
			out = append(out, f.derive(e))
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.Description != nil {
		e.Description = upd.Description
	}
	if upd.EventType != nil {
		e.EventType = *upd.EventType
	}
	if upd.EventDate != nil {
		e.EventDate = *upd.EventDate
	}
	if upd.Location != nil {
		e.Location = *upd.Location
	}
	if upd.TotalSeats != nil {
		e.TotalSeats = *upd.TotalSeats
	}
	return f.derive(e), nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeEventMetrics struct {
	created int
}

func (f *fakeEventMetrics) IncEventCreated() { f.created++ }

func newTestEventService(events *fakeEventRepo, users *fakeUserRepo, m *fakeEventMetrics) domain.EventService {
	return NewEventService(events, users, newFakeRegRepo(), testLogger, m, time.Second)
}

func validEvent(organizerID string) *domain.Event {
	return &domain.Event{
		Title:       "GopherCon",
		EventType:   "conference",
		EventDate:   time.Now().AddDate(0, 1, 0),
		Location:    "Innopolis",
		TotalSeats:  300,
		OrganizerID: organizerID,
	}
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		events := newFakeEventRepo()
		users := newFakeUserRepo()
		m := &fakeEventMetrics{}
		org := seedUser(t, users, "Org")

		svc := newTestEventService(events, users, m)
		e := validEvent(org.ID)
		require.NoError(t, svc.Create(ctx, e))
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, 300, e.AvailableSeats)
		assert.False(t, e.CreatedAt.IsZero())
		assert.Equal(t, 1, m.created)
	})

	t.Run("organizer not found", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo(), newFakeUserRepo(), &fakeEventMetrics{})
		err := svc.Create(ctx, validEvent("missing"))
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("blank title", func(t *testing.T) {
		users := newFakeUserRepo()
		org := seedUser(t, users, "Org")
		svc := newTestEventService(newFakeEventRepo(), users, &fakeEventMetrics{})

		e := validEvent(org.ID)
		e.Title = "   "
		require.ErrorIs(t, svc.Create(ctx, e), domain.ErrInvalidInput)
	})

	t.Run("non-positive seats", func(t *testing.T) {
		users := newFakeUserRepo()
		org := seedUser(t, users, "Org")
		svc := newTestEventService(newFakeEventRepo(), users, &fakeEventMetrics{})

		e := validEvent(org.ID)
		e.TotalSeats = 0
		require.ErrorIs(t, svc.Create(ctx, e), domain.ErrInvalidInput)
	})

	t.Run("seats above cap", func(t *testing.T) {
		users := newFakeUserRepo()
		org := seedUser(t, users, "Org")
		svc := newTestEventService(newFakeEventRepo(), users, &fakeEventMetrics{})

		e := validEvent(org.ID)
		e.TotalSeats = maxTotalSeats + 1
		require.ErrorIs(t, svc.Create(ctx, e), domain.ErrInvalidInput)
	})
}

func TestEventService_Update(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (domain.EventService, *fakeEventRepo, *domain.Event) {
		t.Helper()
		events := newFakeEventRepo()
		users := newFakeUserRepo()
		org := seedUser(t, users, "Org")
		svc := newTestEventService(events, users, &fakeEventMetrics{})
		e := validEvent(org.ID)
		require.NoError(t, svc.Create(ctx, e))
		return svc, events, e
	}

	t.Run("partial update", func(t *testing.T) {
		svc, _, e := setup(t)
		title := "GopherCon Renamed"
		got, err := svc.Update(ctx, e.ID, domain.EventUpdate{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "GopherCon Renamed", got.Title)
		assert.Equal(t, "conference", got.EventType)
	})

	t.Run("shrinking below registrations reports oversold", func(t *testing.T) {
		svc, events, e := setup(t)
		events.taken[e.ID] = 8

		seats := 5
		got, err := svc.Update(ctx, e.ID, domain.EventUpdate{TotalSeats: &seats})
		require.NoError(t, err)
		assert.Equal(t, -3, got.AvailableSeats)
		assert.True(t, got.Oversold)
	})

	t.Run("invalid seats rejected", func(t *testing.T) {
		svc, _, e := setup(t)
		seats := -1
		_, err := svc.Update(ctx, e.ID, domain.EventUpdate{TotalSeats: &seats})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		svc, _, _ := setup(t)
		title := "X"
		_, err := svc.Update(ctx, "missing", domain.EventUpdate{Title: &title})
		require.ErrorIs(t, err, domain.ErrEventNotFound)
	})
}

func TestEventService_GetAndList(t *testing.T) {
	ctx := context.Background()

	events := newFakeEventRepo()
	users := newFakeUserRepo()
	org := seedUser(t, users, "Org")
	svc := newTestEventService(events, users, &fakeEventMetrics{})

	conf := validEvent(org.ID)
	require.NoError(t, svc.Create(ctx, conf))
	hack := validEvent(org.ID)
	hack.Title = "Hackathon"
	hack.EventType = "hackathon"
	require.NoError(t, svc.Create(ctx, hack))

	got, err := svc.GetByID(ctx, conf.ID)
	require.NoError(t, err)
	assert.Equal(t, conf.ID, got.ID)

	_, err = svc.GetByID(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrEventNotFound)

	all, total, err := svc.List(ctx, "", domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, all, 2)

	confs, total, err := svc.List(ctx, "conference", domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, confs, 1)
	assert.Equal(t, conf.ID, confs[0].ID)

	mine, err := svc.ListByOrganizerID(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestEventService_Delete(t *testing.T) {
	ctx := context.Background()

	events := newFakeEventRepo()
	users := newFakeUserRepo()
	org := seedUser(t, users, "Org")
	svc := newTestEventService(events, users, &fakeEventMetrics{})

	e := validEvent(org.ID)
	require.NoError(t, svc.Create(ctx, e))
	require.NoError(t, svc.Delete(ctx, e.ID))
	require.ErrorIs(t, svc.Delete(ctx, e.ID), domain.ErrEventNotFound)
}
