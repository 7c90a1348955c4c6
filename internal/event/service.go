package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/discoveryevent/ticketing-backend/database"
	"github.com/discoveryevent/ticketing-backend/internal/apperr"
	"github.com/discoveryevent/ticketing-backend/internal/auditlog"
	"github.com/discoveryevent/ticketing-backend/internal/organizer"
	"github.com/sirupsen/logrus"
)

const (
	msgNotFound         = "Event not found"
	msgOrganizerMissing = "Organizer ID is required"
	msgMissingFields    = "Missing required event fields"
	msgOrganizerUnknown = "Organizer not found"
	msgCreateFailed     = "Error creating event"
	msgUpdateFailed     = "Error updating event"
	msgDeleteFailed     = "Error deleting event"
	msgFetchFailed      = "Error fetching events"
	msgBadFilter        = "Invalid event filter"
)

// TicketCounter reports how many tickets reference an event.
type TicketCounter interface {
	CountByEvent(ctx context.Context, eventID uint) (int64, error)
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (*Response, error)
	List(ctx context.Context, f ListFilter) ([]Response, error)
	Get(ctx context.Context, id uint) (*Response, error)
	Update(ctx context.Context, id uint, in UpdateInput) (*Response, error)
	Delete(ctx context.Context, id uint, in DeleteInput) error
	ListByOrganizer(ctx context.Context, organizerID uint) ([]Response, error)
}

type Option func(*service)

// WithCache enables read-through caching of get and list.
func WithCache(c Cache) Option {
	return func(s *service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithClock replaces time.Now for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	repo       Repository
	organizers organizer.Repository
	tickets    TicketCounter
	tx         database.Transactor
	audit      auditlog.Service
	cache      Cache
	now        func() time.Time
}

func NewService(repo Repository, organizers organizer.Repository, tickets TicketCounter, tx database.Transactor, audit auditlog.Service, opts ...Option) Service {
	s := &service{
		repo:       repo,
		organizers: organizers,
		tickets:    tickets,
		tx:         tx,
		audit:      audit,
		cache:      NoopCache(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// ===========================
// 🎯 Create Event
func (s *service) Create(ctx context.Context, in CreateInput) (*Response, error) {
	if in.OrganizerID == nil || *in.OrganizerID == 0 {
		return nil, apperr.Validation(msgOrganizerMissing)
	}
	if blank(in.Name) || blank(in.Date) || blank(in.Time) || blank(in.Location) || in.Price == nil {
		return nil, apperr.Validation(msgMissingFields)
	}
	organizerID := *in.OrganizerID
	if in.ActingOrganizerID != nil && *in.ActingOrganizerID != organizerID {
		return nil, apperr.Forbidden("Not authorized to create events for this organizer")
	}

	date, err := ParseDate(*in.Date)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, msgCreateFailed, err)
	}
	clock, err := ParseClock(*in.Time)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, msgCreateFailed, err)
	}
	price, err := coercePrice(in.Price)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, msgCreateFailed, err)
	}
	if err := singleLine("name", *in.Name); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, msgCreateFailed, err)
	}
	if err := singleLine("location", *in.Location); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, msgCreateFailed, err)
	}
	if in.Capacity != nil && *in.Capacity < 1 {
		return nil, apperr.Wrap(apperr.KindValidation, msgCreateFailed, errors.New("capacity must be at least 1"))
	}

	now := s.timestamp()
	e := &Event{
		Name:        strings.TrimSpace(*in.Name),
		Description: in.Description,
		Date:        date,
		Time:        clock,
		Location:    strings.TrimSpace(*in.Location),
		Price:       price,
		Capacity:    in.Capacity,
		OrganizerID: organizerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var resp Response
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		exists, err := s.organizers.Exists(ctx, organizerID)
		if err != nil {
			return apperr.Persistence(msgCreateFailed, err)
		}
		if !exists {
			return apperr.Validation(msgOrganizerUnknown)
		}

		if err := s.repo.Create(ctx, e); err != nil {
			if apperr.IsForeignKeyViolation(err) {
				return apperr.Validation(msgOrganizerUnknown)
			}
			return apperr.Persistence(msgCreateFailed, err)
		}

		if err := s.logAction(ctx, auditlog.ActionEventCreated, organizerID, e.ID, in.IP, map[string]interface{}{
			"name": e.Name, "date": e.Date.String(), "time": e.Time.String(), "price": e.Price, "capacity": e.Capacity,
		}); err != nil {
			return apperr.Persistence(msgCreateFailed, err)
		}

		saved, err := s.repo.FindByID(ctx, e.ID)
		if err != nil {
			return apperr.Persistence(msgCreateFailed, err)
		}
		resp = saved.ToResponse()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	logrus.WithFields(logrus.Fields{"event_id": resp.ID, "organizer_id": organizerID}).Info("🎉 Event created")
	return &resp, nil
}

// ===========================
// 📄 List / Get
// List serves the unfiltered listing from the cache; filtered listings
// always go to the database.
func (s *service) List(ctx context.Context, f ListFilter) ([]Response, error) {
	if !f.empty() {
		q, err := parseFilter(f)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, msgBadFilter, err)
		}
		events, err := s.repo.List(ctx, q)
		if err != nil {
			return nil, apperr.Persistence(msgFetchFailed, err)
		}
		return toResponses(events), nil
	}

	cached, stamp, ok := s.cache.GetList(ctx)
	if ok {
		return cached, nil
	}

	events, err := s.repo.List(ctx, ListQuery{})
	if err != nil {
		return nil, apperr.Persistence(msgFetchFailed, err)
	}
	out := toResponses(events)
	s.cache.SetList(ctx, out, stamp)
	return out, nil
}

func parseFilter(f ListFilter) (ListQuery, error) {
	q := ListQuery{Location: strings.TrimSpace(f.Location)}
	if f.From != nil {
		d, err := ParseDate(*f.From)
		if err != nil {
			return q, err
		}
		q.From = &d
	}
	if f.To != nil {
		d, err := ParseDate(*f.To)
		if err != nil {
			return q, err
		}
		q.To = &d
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return q, errors.New("to must not be before from")
	}
	return q, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Response, error) {
	cached, stamp, ok := s.cache.GetEvent(ctx, id)
	if ok {
		return cached, nil
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound(msgNotFound)
		}
		return nil, apperr.Persistence("Error fetching event", err)
	}
	resp := e.ToResponse()
	s.cache.SetEvent(ctx, &resp, stamp)
	return &resp, nil
}

func (s *service) ListByOrganizer(ctx context.Context, organizerID uint) ([]Response, error) {
	exists, err := s.organizers.Exists(ctx, organizerID)
	if err != nil {
		return nil, apperr.Persistence(msgFetchFailed, err)
	}
	if !exists {
		return nil, apperr.NotFound(msgOrganizerUnknown)
	}

	events, err := s.repo.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, apperr.Persistence(msgFetchFailed, err)
	}
	return toResponses(events), nil
}

// ===========================
// 🛠 Update Event
func (s *service) Update(ctx context.Context, id uint, in UpdateInput) (*Response, error) {
	var resp Response
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		e, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if apperr.IsNotFound(err) {
				return apperr.NotFound(msgNotFound)
			}
			return apperr.Persistence(msgUpdateFailed, err)
		}
		if in.ActingOrganizerID != nil && *in.ActingOrganizerID != e.OrganizerID {
			return apperr.Forbidden("Not authorized to update this event")
		}

		changes, err := applyUpdate(e, in)
		if err != nil {
			return apperr.Wrap(apperr.KindValidation, msgUpdateFailed, err)
		}
		e.UpdatedAt = s.timestamp()

		if err := s.repo.Update(ctx, e); err != nil {
			if errors.Is(err, ErrCapacityBelowSold) {
				return apperr.Conflict("Capacity cannot be below tickets already sold")
			}
			return apperr.Persistence(msgUpdateFailed, err)
		}
		if err := s.logAction(ctx, auditlog.ActionEventUpdated, e.OrganizerID, e.ID, in.IP, changes); err != nil {
			return apperr.Persistence(msgUpdateFailed, err)
		}

		resp = e.ToResponse()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, id)
	return &resp, nil
}

// applyUpdate copies the set fields onto e and returns what changed.
func applyUpdate(e *Event, in UpdateInput) (map[string]interface{}, error) {
	changes := map[string]interface{}{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, errors.New("name cannot be empty")
		}
		if err := singleLine("name", name); err != nil {
			return nil, err
		}
		e.Name = name
		changes["name"] = name
	}
	if in.ClearDescription {
		e.Description = nil
		changes["description"] = nil
	} else if in.Description != nil {
		desc := *in.Description
		e.Description = &desc
		changes["description"] = desc
	}
	if in.Date != nil {
		d, err := ParseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		e.Date = d
		changes["date"] = d.String()
	}
	if in.Time != nil {
		c, err := ParseClock(*in.Time)
		if err != nil {
			return nil, err
		}
		e.Time = c
		changes["time"] = c.String()
	}
	if in.Location != nil {
		loc := strings.TrimSpace(*in.Location)
		if loc == "" {
			return nil, errors.New("location cannot be empty")
		}
		if err := singleLine("location", loc); err != nil {
			return nil, err
		}
		e.Location = loc
		changes["location"] = loc
	}
	if in.PriceSet {
		p, err := coercePrice(in.Price)
		if err != nil {
			return nil, err
		}
		e.Price = p
		changes["price"] = p
	}
	if in.ClearCapacity {
		e.Capacity = nil
		changes["capacity"] = nil
	} else if in.Capacity != nil {
		c := *in.Capacity
		if c < 1 {
			return nil, errors.New("capacity must be at least 1")
		}
		e.Capacity = &c
		changes["capacity"] = c
	}
	return changes, nil
}

// ===========================
// 🗑 Delete Event
func (s *service) Delete(ctx context.Context, id uint, in DeleteInput) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		e, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if apperr.IsNotFound(err) {
				return apperr.NotFound(msgNotFound)
			}
			return apperr.Persistence(msgDeleteFailed, err)
		}
		if in.ActingOrganizerID != nil && *in.ActingOrganizerID != e.OrganizerID {
			return apperr.Forbidden("Not authorized to delete this event")
		}

		sold, err := s.tickets.CountByEvent(ctx, id)
		if err != nil {
			return apperr.Persistence(msgDeleteFailed, err)
		}
		if sold > 0 {
			return apperr.Conflict(fmt.Sprintf("Cannot delete an event with %d sold ticket(s)", sold))
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			if apperr.IsForeignKeyViolation(err) {
				return apperr.Conflict("Cannot delete an event with sold tickets")
			}
			if apperr.IsNotFound(err) {
				return apperr.NotFound(msgNotFound)
			}
			return apperr.Persistence(msgDeleteFailed, err)
		}
		return s.wrapAudit(msgDeleteFailed, s.logAction(ctx, auditlog.ActionEventDeleted, e.OrganizerID, id, in.IP,
			map[string]interface{}{"name": e.Name}))
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, id)
	logrus.WithField("event_id", id).Info("🗑 Event deleted")
	return nil
}

func (s *service) wrapAudit(msg string, err error) error {
	if err != nil {
		return apperr.Persistence(msg, err)
	}
	return nil
}

func (s *service) logAction(ctx context.Context, action string, organizerID, eventID uint, ip string, details map[string]interface{}) error {
	if s.audit == nil {
		return nil
	}
	return s.audit.LogAction(ctx, auditlog.Entry{
		OrganizerID: &organizerID,
		EventID:     &eventID,
		Action:      action,
		Details:     details,
		IP:          ip,
	})
}

// singleLine rejects line breaks in fields that end up in mail headers.
func singleLine(field, v string) error {
	if strings.ContainsAny(v, "\r\n") {
		return fmt.Errorf("%s must not contain line breaks", field)
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// coercePrice accepts a JSON number or a numeric string.
func coercePrice(v any) (float64, error) {
	var p float64
	switch x := v.(type) {
	case float64:
		p = x
	case float32:
		p = float64(x)
	case int:
		p = float64(x)
	case int64:
		p = float64(x)
	case uint:
		p = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("invalid price %q", x.String())
		}
		p = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q", x)
		}
		p = f
	default:
		return 0, fmt.Errorf("invalid price %v", v)
	}
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, fmt.Errorf("invalid price %v", v)
	}
	if p < 0 {
		return 0, errors.New("price must not be negative")
	}
	return p, nil
}
