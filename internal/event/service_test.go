package event_test

import (
	"context"
	"testing"
	"time"

	"github.com/discoveryevent/ticketing-backend/database"
	"github.com/discoveryevent/ticketing-backend/internal/apperr"
	"github.com/discoveryevent/ticketing-backend/internal/auditlog"
	"github.com/discoveryevent/ticketing-backend/internal/event"
	"github.com/discoveryevent/ticketing-backend/internal/organizer"
	"github.com/discoveryevent/ticketing-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTickets struct{ counts map[uint]int64 }

func (f *fakeTickets) CountByEvent(_ context.Context, id uint) (int64, error) {
	return f.counts[id], nil
}

type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

type fixture struct {
	db      *gorm.DB
	svc     event.Service
	tickets *fakeTickets
	org     *organizer.Organizer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, &organizer.Organizer{}, &event.Event{}, &auditlog.AuditLog{})

	org := &organizer.Organizer{Username: "crew", Email: "crew@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(org).Error)

	tickets := &fakeTickets{counts: map[uint]int64{}}
	clock := &stepClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc := event.NewService(
		event.NewRepository(db),
		organizer.NewRepository(db),
		tickets,
		database.NewTransactor(db),
		auditlog.NewService(auditlog.NewRepository(db)),
		event.WithClock(clock.Now),
	)
	return &fixture{db: db, svc: svc, tickets: tickets, org: org}
}

func str(s string) *string { return &s }

func intp(n int) *int { return &n }

func (f *fixture) create(t *testing.T, name, date, clock string) *event.Response {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), event.CreateInput{
		OrganizerID: &f.org.ID,
		Name:        str(name),
		Date:        str(date),
		Time:        str(clock),
		Location:    str("Main Hall"),
		Price:       25.0,
	})
	require.NoError(t, err)
	return resp
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), event.CreateInput{
		OrganizerID: &f.org.ID,
		Name:        str("Jazz Night"),
		Description: str("Live quartet"),
		Date:        str("2026-11-20"),
		Time:        str("19:30:00"),
		Location:    str("Blue Hall"),
		Price:       "12.50",
	})
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.Equal(t, "Jazz Night", resp.Name)
	assert.Equal(t, "2026-11-20", resp.Date)
	assert.Equal(t, "19:30:00", resp.Time)
	assert.Equal(t, 12.5, resp.Price)
	require.NotNil(t, resp.OrganizerUsername)
	assert.Equal(t, "crew", *resp.OrganizerUsername)
	assert.True(t, resp.CreatedAt.Equal(resp.UpdatedAt))

	var logs int64
	f.db.Model(&auditlog.AuditLog{}).Where("action = ?", auditlog.ActionEventCreated).Count(&logs)
	assert.Equal(t, int64(1), logs)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	unknown := uint(999)

	tests := []struct {
		name string
		in   event.CreateInput
		kind apperr.Kind
		msg  string
	}{
		{
			name: "missing organizer",
			in:   event.CreateInput{Name: str("x"), Date: str("2026-01-01"), Time: str("10:00:00"), Location: str("y"), Price: 1.0},
			kind: apperr.KindValidation,
			msg:  "Organizer ID is required",
		},
		{
			name: "missing price",
			in:   event.CreateInput{OrganizerID: &f.org.ID, Name: str("x"), Date: str("2026-01-01"), Time: str("10:00:00"), Location: str("y")},
			kind: apperr.KindValidation,
			msg:  "Missing required event fields",
		},
		{
			name: "missing name",
			in:   event.CreateInput{OrganizerID: &f.org.ID, Date: str("2026-01-01"), Time: str("10:00:00"), Location: str("y"), Price: 1.0},
			kind: apperr.KindValidation,
			msg:  "Missing required event fields",
		},
		{
			name: "non numeric price",
			in:   event.CreateInput{OrganizerID: &f.org.ID, Name: str("x"), Date: str("2026-01-01"), Time: str("10:00:00"), Location: str("y"), Price: "free"},
			kind: apperr.KindValidation,
			msg:  "Error creating event",
		},
		{
			name: "negative price",
			in:   event.CreateInput{OrganizerID: &f.org.ID, Name: str("x"), Date: str("2026-01-01"), Time: str("10:00:00"), Location: str("y"), Price: -5.0},
			kind: apperr.KindValidation,
			msg:  "Error creating event",
		},
		{
			name: "bad date",
			in:   event.CreateInput{OrganizerID: &f.org.ID, Name: str("x"), Date: str("20/01/2026"), Time: str("10:00:00"), Location: str("y"), Price: 1.0},
			kind: apperr.KindValidation,
			msg:  "Error creating event",
		},
		{
			name: "unknown organizer",
			in:   event.CreateInput{OrganizerID: &unknown, Name: str("x"), Date: str("2026-01-01"), Time: str("10:00:00"), Location: str("y"), Price: 1.0},
			kind: apperr.KindValidation,
			msg:  "Organizer not found",
		},
		{
			name: "line break in name",
			in:   event.CreateInput{OrganizerID: &f.org.ID, Name: str("Jazz\r\nBcc: list@evil.example"), Date: str("2026-01-01"), Time: str("10:00:00"), Location: str("y"), Price: 1.0},
			kind: apperr.KindValidation,
			msg:  "Error creating event",
		},
		{
			name: "line break in location",
			in:   event.CreateInput{OrganizerID: &f.org.ID, Name: str("x"), Date: str("2026-01-01"), Time: str("10:00:00"), Location: str("Hall\nBcc: x@evil.example"), Price: 1.0},
			kind: apperr.KindValidation,
			msg:  "Error creating event",
		},
		{
			name: "zero capacity",
			in:   event.CreateInput{OrganizerID: &f.org.ID, Name: str("x"), Date: str("2026-01-01"), Time: str("10:00:00"), Location: str("y"), Price: 1.0, Capacity: intp(0)},
			kind: apperr.KindValidation,
			msg:  "Error creating event",
		},
		{
			name: "acting organizer mismatch",
			in:   event.CreateInput{OrganizerID: &f.org.ID, ActingOrganizerID: &unknown, Name: str("x"), Date: str("2026-01-01"), Time: str("10:00:00"), Location: str("y"), Price: 1.0},
			kind: apperr.KindForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			if tt.msg != "" {
				var e *apperr.Error
				require.ErrorAs(t, err, &e)
				assert.Equal(t, tt.msg, e.Message)
			}
		})
	}

	var count int64
	f.db.Model(&event.Event{}).Count(&count)
	assert.Zero(t, count, "failed creates must not leave rows")
}

func TestListOrderedByDateThenTime(t *testing.T) {
	f := newFixture(t)
	f.create(t, "late", "2026-05-02", "09:00:00")
	f.create(t, "evening", "2026-05-01", "20:00:00")
	f.create(t, "morning", "2026-05-01", "08:30:00")
	f.create(t, "morning twin", "2026-05-01", "08:30:00")

	events, err := f.svc.List(context.Background(), event.ListFilter{})
	require.NoError(t, err)
	require.Len(t, events, 4)

	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"morning", "morning twin", "evening", "late"}, names)

	for i := 1; i < len(events); i++ {
		prev, cur := events[i-1], events[i]
		assert.True(t, prev.Date < cur.Date || (prev.Date == cur.Date && prev.Time <= cur.Time))
	}
}

func TestListEmpty(t *testing.T) {
	f := newFixture(t)
	events, err := f.svc.List(context.Background(), event.ListFilter{})
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestGetNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Get(context.Background(), 42)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdatePartial(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "Jazz Night", "2026-11-20", "19:30:00")

	updated, err := f.svc.Update(context.Background(), created.ID, event.UpdateInput{
		Location: str("Green Room"),
		Price:    "30",
		PriceSet: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Green Room", updated.Location)
	assert.Equal(t, 30.0, updated.Price)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Date, updated.Date)
	assert.Equal(t, created.Time, updated.Time)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	got, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Green Room", got.Location)
}

func TestUpdateClearsDescription(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(context.Background(), event.CreateInput{
		OrganizerID: &f.org.ID, Name: str("x"), Description: str("temp"),
		Date: str("2026-01-01"), Time: str("10:00"), Location: str("y"), Price: 0.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "10:00:00", created.Time)

	updated, err := f.svc.Update(context.Background(), created.ID, event.UpdateInput{ClearDescription: true})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
}

func TestUpdateErrors(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "Jazz Night", "2026-11-20", "19:30:00")
	other := uint(77)

	_, err := f.svc.Update(context.Background(), 999, event.UpdateInput{Name: str("nope")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.svc.Update(context.Background(), created.ID, event.UpdateInput{Price: "abc", PriceSet: true})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.Update(context.Background(), created.ID, event.UpdateInput{Name: str("hijack"), ActingOrganizerID: &other})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	got, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night", got.Name)
	assert.Equal(t, 25.0, got.Price)
}

func TestUpdateRejectsLineBreaks(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "Jazz Night", "2026-11-20", "19:30:00")

	for _, in := range []event.UpdateInput{
		{Name: str("Jazz\r\nBcc: list@evil.example")},
		{Location: str("Hall\rX-Injected: 1")},
	} {
		_, err := f.svc.Update(context.Background(), created.ID, in)
		require.Error(t, err)
		var e *apperr.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, apperr.KindValidation, e.Kind)
		assert.Equal(t, "Error updating event", e.Message)
	}

	got, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night", got.Name)
	assert.Equal(t, "Main Hall", got.Location)
}

func TestCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := event.NewRepository(f.db)

	created, err := f.svc.Create(ctx, event.CreateInput{
		OrganizerID: &f.org.ID, Name: str("Small room"), Date: str("2026-06-01"),
		Time: str("18:00"), Location: str("Loft"), Price: 5.0, Capacity: intp(2),
	})
	require.NoError(t, err)
	require.NotNil(t, created.Capacity)
	require.NotNil(t, created.TicketsAvailable)
	assert.Equal(t, 2, *created.TicketsAvailable)

	for i := 0; i < 2; i++ {
		ok, err := repo.ReserveSeat(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := repo.ReserveSeat(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok, "third seat must be refused")

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, *got.TicketsAvailable)

	_, err = f.svc.Update(ctx, created.ID, event.UpdateInput{Capacity: intp(1)})
	assert.True(t, apperr.Is(err, apperr.KindConflict), "capacity below sold")

	_, err = f.svc.Update(ctx, created.ID, event.UpdateInput{Capacity: intp(0)})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	// an unrelated edit must not reset the sold counter
	updated, err := f.svc.Update(ctx, created.ID, event.UpdateInput{Capacity: intp(3), Price: 6.0, PriceSet: true})
	require.NoError(t, err)
	assert.Equal(t, 1, *updated.TicketsAvailable)

	var stored event.Event
	require.NoError(t, f.db.First(&stored, created.ID).Error)
	assert.Equal(t, 2, stored.TicketsSold)

	cleared, err := f.svc.Update(ctx, created.ID, event.UpdateInput{ClearCapacity: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.Capacity)
	assert.Nil(t, cleared.TicketsAvailable)

	ok, err = repo.ReserveSeat(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok, "unlimited events never sell out")
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, "spring", "2026-04-10", "10:00:00")
	f.create(t, "summer", "2026-07-01", "10:00:00")
	_, err := f.svc.Create(ctx, event.CreateInput{
		OrganizerID: &f.org.ID, Name: str("rooftop"), Date: str("2026-07-15"),
		Time: str("21:00"), Location: str("Rooftop 50% Bar"), Price: 0.0,
	})
	require.NoError(t, err)

	names := func(events []event.Response) []string {
		out := make([]string, 0, len(events))
		for _, e := range events {
			out = append(out, e.Name)
		}
		return out
	}

	events, err := f.svc.List(ctx, event.ListFilter{Location: "main hall"})
	require.NoError(t, err)
	assert.Equal(t, []string{"spring", "summer"}, names(events))

	events, err = f.svc.List(ctx, event.ListFilter{Location: "50%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rooftop"}, names(events))

	events, err = f.svc.List(ctx, event.ListFilter{From: str("2026-07-01"), To: str("2026-07-10")})
	require.NoError(t, err)
	assert.Equal(t, []string{"summer"}, names(events))

	_, err = f.svc.List(ctx, event.ListFilter{From: str("2026-08-01"), To: str("2026-07-01")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.List(ctx, event.ListFilter{From: str("July")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "Jazz Night", "2026-11-20", "19:30:00")

	require.NoError(t, f.svc.Delete(context.Background(), created.ID, event.DeleteInput{}))

	_, err := f.svc.Get(context.Background(), created.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = f.svc.Delete(context.Background(), created.ID, event.DeleteInput{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteWithTicketsConflicts(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "Jazz Night", "2026-11-20", "19:30:00")
	f.tickets.counts[created.ID] = 2

	err := f.svc.Delete(context.Background(), created.ID, event.DeleteInput{})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = f.svc.Get(context.Background(), created.ID)
	assert.NoError(t, err)
}

func TestDeleteByOtherOrganizerForbidden(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "Jazz Night", "2026-11-20", "19:30:00")
	other := f.org.ID + 1

	err := f.svc.Delete(context.Background(), created.ID, event.DeleteInput{ActingOrganizerID: &other})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestListByOrganizer(t *testing.T) {
	f := newFixture(t)
	f.create(t, "b", "2026-03-02", "10:00:00")
	f.create(t, "a", "2026-03-01", "10:00:00")

	second := &organizer.Organizer{Username: "other", Email: "other@example.com", PasswordHash: "x"}
	require.NoError(t, f.db.Create(second).Error)

	events, err := f.svc.ListByOrganizer(context.Background(), f.org.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].Name)

	events, err = f.svc.ListByOrganizer(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = f.svc.ListByOrganizer(context.Background(), 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
