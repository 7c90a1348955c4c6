package ticket

import (
	"time"

	"github.com/discoveryevent/ticketing-backend/internal/event"
)

// ============================
// 🎟 GORM Ticket Model
type Ticket struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TicketCode   string    `gorm:"size:36;not null;uniqueIndex" json:"ticket_code"`
	EventID      uint      `gorm:"not null;index" json:"event_id"`
	BuyerName    string    `gorm:"size:100;not null" json:"buyer_name"`
	BuyerEmail   string    `gorm:"size:120;not null" json:"buyer_email"`
	PurchaseDate time.Time `gorm:"not null" json:"purchase_date"`
	IsUsed       bool      `gorm:"not null;default:false" json:"is_used"`

	Event event.Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// ============================
// 📤 Ticket Response
type Response struct {
	ID           uint      `json:"id"`
	TicketCode   string    `json:"ticket_code"`
	EventID      uint      `json:"event_id"`
	EventName    *string   `json:"event_name"`
	BuyerName    string    `json:"buyer_name"`
	BuyerEmail   string    `json:"buyer_email"`
	PurchaseDate time.Time `json:"purchase_date"`
	IsUsed       bool      `json:"is_used"`
}

func (t *Ticket) ToResponse() Response {
	r := Response{
		ID:           t.ID,
		TicketCode:   t.TicketCode,
		EventID:      t.EventID,
		BuyerName:    t.BuyerName,
		BuyerEmail:   t.BuyerEmail,
		PurchaseDate: t.PurchaseDate,
		IsUsed:       t.IsUsed,
	}
	if t.Event.ID != 0 {
		name := t.Event.Name
		r.EventName = &name
	}
	return r
}

type PurchaseInput struct {
	EventID    *uint
	BuyerName  string
	BuyerEmail string
	IP         string
}

// Export is a rendered attendee list.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}
