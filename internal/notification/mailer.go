package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/discoveryevent/ticketing-backend/config"
	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

// Mailer delivers one message. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer picks the transport named by EMAIL_PROVIDER.
func NewMailer(cfg *config.Config) (Mailer, error) {
	switch strings.ToLower(cfg.EmailProvider) {
	case "", "smtp":
		if cfg.SMTPHost == "" {
			logrus.Warn("⚠️ SMTP not configured, confirmation emails will only be logged")
			return LogMailer{}, nil
		}
		return NewSMTPMailer(cfg), nil
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, errors.New("RESEND_API_KEY is required for EMAIL_PROVIDER=resend")
		}
		return NewResendMailer(resend.NewClient(cfg.ResendAPIKey), cfg.SMTPFromName, cfg.SMTPFromEmail), nil
	case "none", "log":
		return LogMailer{}, nil
	}
	return nil, fmt.Errorf("unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
}

// LogMailer only logs what would have been sent.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	logrus.WithFields(logrus.Fields{"to": msg.To, "subject": msg.Subject}).Info("📧 Email not sent (no transport configured)")
	return nil
}

// ResendMailer sends through the Resend HTTP API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(client *resend.Client, fromName, fromAddr string) *ResendMailer {
	from := fromAddr
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromAddr)
	}
	return &ResendMailer{client: client, from: from}
}

func (r *ResendMailer) Send(ctx context.Context, msg Message) error {
	if err := headerSafe(msg.To, msg.Subject); err != nil {
		return err
	}
	params := &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Body,
		Html:    msg.HTML,
	}

	sent, err := r.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			logrus.WithFields(logrus.Fields{
				"limit":     rateLimitErr.Limit,
				"remaining": rateLimitErr.Remaining,
				"reset":     rateLimitErr.Reset,
			}).Warn("⚠️ resend rate limit exceeded")
			return fmt.Errorf("email rate limit exceeded (resets in %s seconds): %w", rateLimitErr.Reset, err)
		}
		return fmt.Errorf("resend API error: %w", err)
	}

	logrus.WithFields(logrus.Fields{"email_id": sent.Id, "to": msg.To}).Debug("email sent via Resend")
	return nil
}
