package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/discoveryevent/ticketing-backend/monitoring"
	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull = errors.New("notification queue full")
	ErrClosed    = errors.New("notification dispatcher closed")
)

// Notifier hands a confirmation off for delivery. It must not block on the
// email transport.
type Notifier interface {
	Notify(ctx context.Context, c Confirmation) error
}

// Deliverer sends a confirmation synchronously, retrying as configured.
type Deliverer interface {
	Deliver(ctx context.Context, c Confirmation) error
}

type DispatcherOptions struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	Backoff     time.Duration // grows linearly with the attempt number
}

func (o *DispatcherOptions) defaults() {
	if o.Workers <= 0 {
		o.Workers = 2
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.Backoff <= 0 {
		o.Backoff = 2 * time.Second
	}
}

type job struct {
	ctx context.Context
	c   Confirmation
}

// Dispatcher is a fixed pool of workers draining a bounded queue of
// confirmations. Close stops intake and waits for queued jobs.
type Dispatcher struct {
	mailer Mailer
	logs   Repository
	opts   DispatcherOptions

	mu     sync.RWMutex
	closed bool
	jobs   chan job
	wg     sync.WaitGroup
}

// NewDispatcher starts the workers. logs may be nil.
func NewDispatcher(mailer Mailer, logs Repository, opts DispatcherOptions) *Dispatcher {
	opts.defaults()
	d := &Dispatcher{
		mailer: mailer,
		logs:   logs,
		opts:   opts,
		jobs:   make(chan job, opts.QueueSize),
	}
	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Notify queues c without waiting for delivery.
func (d *Dispatcher) Notify(ctx context.Context, c Confirmation) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	select {
	case d.jobs <- job{ctx: context.WithoutCancel(ctx), c: c}:
		monitoring.SetEmailQueueDepth(len(d.jobs))
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		monitoring.SetEmailQueueDepth(len(d.jobs))
		_ = d.Deliver(j.ctx, j.c)
	}
}

// Deliver sends c, retrying failed attempts, and records the outcome.
// The returned error is for callers that need it; it is already logged.
func (d *Dispatcher) Deliver(ctx context.Context, c Confirmation) error {
	msg := BuildConfirmation(c)
	entry := logrus.WithFields(logrus.Fields{"ticket_code": c.TicketCode, "to": c.BuyerEmail})

	var err error
	attempt := 0
	for attempt < d.opts.MaxAttempts {
		attempt++
		if err = d.mailer.Send(ctx, msg); err == nil {
			break
		}

		entry.WithError(err).WithField("attempt", attempt).Warn("⚠️ confirmation email attempt failed")
		if attempt == d.opts.MaxAttempts {
			break
		}
		monitoring.TrackEmail("retried")

		select {
		case <-time.After(d.opts.Backoff * time.Duration(attempt)):
		case <-ctx.Done():
			err = ctx.Err()
			attempt = d.opts.MaxAttempts
		}
	}

	d.record(ctx, c, msg, attempt, err)
	if err != nil {
		monitoring.TrackEmail("failed")
		entry.WithError(err).WithField("attempt", attempt).Error("❌ Failed to send ticket confirmation email")
		return err
	}

	monitoring.TrackEmail("sent")
	entry.WithField("attempt", attempt).Info("📧 Ticket confirmation email sent")
	return nil
}

func (d *Dispatcher) record(ctx context.Context, c Confirmation, msg Message, attempts int, sendErr error) {
	if d.logs == nil {
		return
	}

	log := &NotificationLog{
		TicketCode: c.TicketCode,
		Channel:    ChannelEmail,
		Recipient:  msg.To,
		Subject:    msg.Subject,
		Status:     StatusSent,
		Attempts:   attempts,
	}
	if sendErr != nil {
		log.Status = StatusFailed
		log.Error = sendErr.Error()
	} else {
		now := time.Now().UTC()
		log.SentAt = &now
	}

	if err := d.logs.CreateNotificationLog(context.WithoutCancel(ctx), log); err != nil {
		logrus.WithError(err).WithField("ticket_code", c.TicketCode).Warn("⚠️ could not record notification outcome")
	}
}

// Close stops accepting confirmations and waits until the queue is drained
// or ctx expires.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
