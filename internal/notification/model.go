package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	ChannelEmail = "email"

	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Confirmation is everything the purchase confirmation needs. It is also
// the JSON payload published to kafka.
type Confirmation struct {
	TicketCode string `json:"ticket_code"`
	BuyerName  string `json:"buyer_name"`
	BuyerEmail string `json:"buyer_email"`
	EventName  string `json:"event_name"`
	EventDate  string `json:"event_date"` // YYYY-MM-DD
	EventTime  string `json:"event_time"` // HH:MM
	Location   string `json:"location"`
}

// Message is one email. HTML is optional; when set the message goes out
// as multipart/alternative with Body as the plain-text part.
type Message struct {
	To      string
	Subject string
	Body    string
	HTML    string
}

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Your ticket for {{.EventName}}</h2>
  <p>Hello {{.BuyerName}},</p>
  <p>Thank you for your purchase!</p>
  <table cellpadding="4">
    <tr><td><strong>Ticket code</strong></td><td style="font-family: monospace;">{{.TicketCode}}</td></tr>
    <tr><td><strong>Event</strong></td><td>{{.EventName}}</td></tr>
    <tr><td><strong>Date</strong></td><td>{{.EventDate}} at {{.EventTime}}</td></tr>
    <tr><td><strong>Location</strong></td><td>{{.Location}}</td></tr>
  </table>
  <p>Please present this code at the entrance.</p>
  <p>We look forward to seeing you!</p>
  <p>Best regards,<br>The DiscoveryEvent's Team</p>
</body>
</html>
`))

// BuildConfirmation renders the ticket confirmation email.
func BuildConfirmation(c Confirmation) Message {
	var html bytes.Buffer
	if err := confirmationHTML.Execute(&html, c); err != nil {
		logrus.WithError(err).WithField("ticket_code", c.TicketCode).Warn("⚠️ HTML confirmation render failed, sending plain text only")
		html.Reset()
	}

	return Message{
		To:      c.BuyerEmail,
		Subject: fmt.Sprintf("Your Ticket for %s - DiscoveryEvent's", c.EventName),
		Body: fmt.Sprintf("Hello %s,\n\n"+
			"Thank you for your purchase!\n"+
			"Your ticket code is: %s\n"+
			"Event: %s\n"+
			"Date: %s at %s\n"+
			"Location: %s\n\n"+
			"We look forward to seeing you!\n\n"+
			"Best regards,\n"+
			"The DiscoveryEvent's Team",
			c.BuyerName, c.TicketCode, c.EventName, c.EventDate, c.EventTime, c.Location),
		HTML: html.String(),
	}
}

// NotificationLog records the final outcome of each confirmation email.
type NotificationLog struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	TicketCode string     `gorm:"size:36;not null;index" json:"ticket_code"`
	Channel    string     `gorm:"size:20;not null" json:"channel"`
	Recipient  string     `gorm:"size:120;not null" json:"recipient"`
	Subject    string     `gorm:"size:255" json:"subject"`
	Status     string     `gorm:"size:20;not null;index" json:"status"`
	Attempts   int        `gorm:"not null" json:"attempts"`
	Error      string     `gorm:"type:text" json:"error,omitempty"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}
