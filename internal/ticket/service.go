package ticket

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/discoveryevent/ticketing-backend/database"
	"github.com/discoveryevent/ticketing-backend/internal/apperr"
	"github.com/discoveryevent/ticketing-backend/internal/auditlog"
	"github.com/discoveryevent/ticketing-backend/internal/event"
	"github.com/discoveryevent/ticketing-backend/internal/notification"
	"github.com/discoveryevent/ticketing-backend/monitoring"
	"github.com/sirupsen/logrus"
)

const (
	msgMissingPurchase = "Missing event_id, buyer_name, or buyer_email"
	msgEventNotFound   = "Event not found"
	msgTicketNotFound  = "Ticket not found"
	msgPurchaseFailed  = "Error purchasing ticket"
	msgSoldOut         = "No tickets available"

	maxCodeAttempts = 5
)

var ErrCodeSpaceExhausted = errors.New("could not generate a unique ticket code")

type Service interface {
	Purchase(ctx context.Context, in PurchaseInput) (*Response, error)
	GetByCode(ctx context.Context, code string) (*Response, error)
	ListForEvent(ctx context.Context, eventID uint) ([]Response, error)
	Export(ctx context.Context, eventID uint, format string) (*Export, error)
}

type service struct {
	repo     Repository
	events   event.Repository
	tx       database.Transactor
	audit    auditlog.Service
	notifier notification.Notifier
	codes    CodeGenerator
	exporter Exporter
	cache    event.Cache
	now      func() time.Time
}

type Option func(*service)

// WithEventCache drops the cached event after each sale so
// tickets_available stays current.
func WithEventCache(c event.Cache) Option {
	return func(s *service) {
		if c != nil {
			s.cache = c
		}
	}
}

func NewService(repo Repository, events event.Repository, tx database.Transactor, audit auditlog.Service, notifier notification.Notifier, codes CodeGenerator, opts ...Option) Service {
	if codes == nil {
		codes = UUIDGenerator{}
	}
	s := &service{
		repo:     repo,
		events:   events,
		tx:       tx,
		audit:    audit,
		notifier: notifier,
		codes:    codes,
		exporter: NewExporter(),
		cache:    event.NoopCache(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ===========================
// 🎟 Purchase
func (s *service) Purchase(ctx context.Context, in PurchaseInput) (*Response, error) {
	in.BuyerName = strings.TrimSpace(in.BuyerName)
	in.BuyerEmail = strings.TrimSpace(in.BuyerEmail)
	if in.EventID == nil || *in.EventID == 0 || in.BuyerName == "" || in.BuyerEmail == "" {
		return nil, apperr.Validation(msgMissingPurchase)
	}

	var (
		issued *Ticket
		ev     *event.Event
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		ev, err = s.events.FindByID(ctx, *in.EventID)
		if err != nil {
			if apperr.IsNotFound(err) {
				return apperr.NotFound(msgEventNotFound)
			}
			return apperr.Persistence(msgPurchaseFailed, err)
		}

		reserved, err := s.events.ReserveSeat(ctx, ev.ID)
		if err != nil {
			return apperr.Persistence(msgPurchaseFailed, err)
		}
		if !reserved {
			monitoring.TrackSoldOut()
			return apperr.Conflict(msgSoldOut)
		}

		issued, err = s.insertWithFreshCode(ctx, ev.ID, in)
		if err != nil {
			return apperr.Persistence(msgPurchaseFailed, err)
		}

		if s.audit != nil {
			err = s.audit.LogAction(ctx, auditlog.Entry{
				OrganizerID: &ev.OrganizerID,
				EventID:     &ev.ID,
				Action:      auditlog.ActionTicketPurchased,
				Details:     map[string]interface{}{"ticket_code": issued.TicketCode},
				IP:          in.IP,
			})
			if err != nil {
				return apperr.Persistence(msgPurchaseFailed, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	issued.Event = *ev
	s.cache.Invalidate(ctx, ev.ID)
	monitoring.TrackTicketPurchased()
	logrus.WithFields(logrus.Fields{"ticket_code": issued.TicketCode, "event_id": ev.ID}).Info("🎟 Ticket purchased")

	s.sendConfirmation(ctx, issued, ev)

	resp := issued.ToResponse()
	return &resp, nil
}

// insertWithFreshCode inserts the ticket, drawing a new code whenever the
// unique index rejects one. Each attempt runs in its own savepoint.
func (s *service) insertWithFreshCode(ctx context.Context, eventID uint, in PurchaseInput) (*Ticket, error) {
	purchasedAt := s.now().UTC().Truncate(time.Microsecond)

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		t := &Ticket{
			TicketCode:   s.codes.Generate(),
			EventID:      eventID,
			BuyerName:    in.BuyerName,
			BuyerEmail:   in.BuyerEmail,
			PurchaseDate: purchasedAt,
		}

		err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
			return s.repo.Create(ctx, t)
		})
		if err == nil {
			return t, nil
		}
		if !apperr.IsUniqueViolation(err) {
			return nil, err
		}

		monitoring.TrackCodeCollision()
		logrus.WithFields(logrus.Fields{"attempt": attempt, "event_id": eventID}).Warn("⚠️ ticket code collision, retrying")
	}
	return nil, ErrCodeSpaceExhausted
}

// sendConfirmation runs after commit. Its failure is logged and never
// reaches the caller.
func (s *service) sendConfirmation(ctx context.Context, t *Ticket, ev *event.Event) {
	if s.notifier == nil {
		logrus.WithField("ticket_code", t.TicketCode).Error("Mail notifier not configured. Email not sent.")
		return
	}

	err := s.notifier.Notify(ctx, notification.Confirmation{
		TicketCode: t.TicketCode,
		BuyerName:  t.BuyerName,
		BuyerEmail: t.BuyerEmail,
		EventName:  ev.Name,
		EventDate:  ev.Date.String(),
		EventTime:  ev.Time.Short(),
		Location:   ev.Location,
	})
	if err != nil {
		monitoring.TrackEmail("failed")
		logrus.WithError(err).WithFields(logrus.Fields{
			"ticket_code": t.TicketCode,
			"to":          t.BuyerEmail,
		}).Error("❌ Failed to send ticket confirmation email")
	}
}

// ===========================
// 🔍 Lookup
func (s *service) GetByCode(ctx context.Context, code string) (*Response, error) {
	t, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound(msgTicketNotFound)
		}
		return nil, apperr.Persistence("Error fetching ticket", err)
	}
	resp := t.ToResponse()
	return &resp, nil
}

func (s *service) ListForEvent(ctx context.Context, eventID uint) ([]Response, error) {
	_, tickets, err := s.ticketsForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	out := make([]Response, 0, len(tickets))
	for i := range tickets {
		out = append(out, tickets[i].ToResponse())
	}
	return out, nil
}

func (s *service) ticketsForEvent(ctx context.Context, eventID uint) (*event.Event, []Ticket, error) {
	ev, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil, apperr.NotFound(msgEventNotFound)
		}
		return nil, nil, apperr.Persistence("Error fetching tickets", err)
	}

	tickets, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, nil, apperr.Persistence("Error fetching tickets", err)
	}
	return ev, tickets, nil
}

// ===========================
// 📊 Attendee Export
func (s *service) Export(ctx context.Context, eventID uint, format string) (*Export, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if !s.exporter.Supports(format) {
		return nil, apperr.Validation("Unsupported export format, use xlsx, csv or pdf")
	}

	ev, tickets, err := s.ticketsForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	out, err := s.exporter.Export(format, ev, tickets)
	if err != nil {
		return nil, apperr.Persistence("Error exporting tickets", err)
	}
	return out, nil
}
