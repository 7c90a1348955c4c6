package event

import (
	"strings"
	"time"

	"github.com/discoveryevent/ticketing-backend/internal/organizer"
)

// ============================
// 🔷 GORM Event Model
type Event struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:120;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	Date        Date    `gorm:"not null;index:idx_events_schedule,priority:1" json:"date"`
	Time        Clock   `gorm:"not null;index:idx_events_schedule,priority:2" json:"time"`
	Location    string  `gorm:"size:200;not null" json:"location"`
	Price       float64 `gorm:"not null;default:0" json:"price"`
	OrganizerID uint    `gorm:"not null;index" json:"organizer_id"`

	// nil means unlimited; TicketsSold only moves through ReserveSeat
	Capacity    *int `json:"capacity"`
	TicketsSold int  `gorm:"not null;default:0" json:"tickets_sold"`

	Organizer organizer.Organizer `gorm:"foreignKey:OrganizerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`

	// set by the service so updated_at follows its clock
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

// ============================
// 📤 Event Response
type Response struct {
	ID                uint      `json:"id"`
	Name              string    `json:"name"`
	Description       *string   `json:"description"`
	Date              string    `json:"date" example:"2026-11-20"`
	Time              string    `json:"time" example:"19:30:00"`
	Location          string    `json:"location"`
	Price             float64   `json:"price"`
	Capacity          *int      `json:"capacity"`
	TicketsAvailable  *int      `json:"tickets_available"`
	OrganizerID       uint      `json:"organizer_id"`
	OrganizerUsername *string   `json:"organizer_username"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (e *Event) ToResponse() Response {
	r := Response{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Date:        e.Date.String(),
		Time:        e.Time.String(),
		Location:    e.Location,
		Price:       e.Price,
		Capacity:    e.Capacity,
		OrganizerID: e.OrganizerID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.Capacity != nil {
		left := max(*e.Capacity-e.TicketsSold, 0)
		r.TicketsAvailable = &left
	}
	if e.Organizer.ID != 0 {
		username := e.Organizer.Username
		r.OrganizerUsername = &username
	}
	return r
}

func toResponses(events []Event) []Response {
	out := make([]Response, 0, len(events))
	for i := range events {
		out = append(out, events[i].ToResponse())
	}
	return out
}

// ============================
// 🟡 Service Inputs

// CreateInput carries the raw request fields; nil means the key was absent.
type CreateInput struct {
	OrganizerID *uint
	Name        *string
	Description *string
	Date        *string
	Time        *string
	Location    *string
	Price       any // number or numeric string
	Capacity    *int

	ActingOrganizerID *uint
	IP                string
}

// UpdateInput is a partial update; only set fields change.
type UpdateInput struct {
	Name             *string
	Description      *string
	ClearDescription bool
	Date             *string
	Time             *string
	Location         *string
	Price            any
	PriceSet         bool
	Capacity         *int
	ClearCapacity    bool

	ActingOrganizerID *uint
	IP                string
}

type DeleteInput struct {
	ActingOrganizerID *uint
	IP                string
}

// ListFilter narrows GET /events. Empty fields match everything.
type ListFilter struct {
	Location string  // case-insensitive substring
	From     *string // YYYY-MM-DD, inclusive
	To       *string // YYYY-MM-DD, inclusive
}

func (f ListFilter) empty() bool {
	return strings.TrimSpace(f.Location) == "" && f.From == nil && f.To == nil
}

// ListQuery is a parsed ListFilter.
type ListQuery struct {
	Location string
	From     *Date
	To       *Date
}
