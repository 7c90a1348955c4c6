package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionOrganizerRegistered = "ORGANIZER_REGISTERED"
	ActionEventCreated        = "EVENT_CREATED"
	ActionEventUpdated        = "EVENT_UPDATED"
	ActionEventDeleted        = "EVENT_DELETED"
	ActionTicketPurchased     = "TICKET_PURCHASED"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizerID *uint          `gorm:"index" json:"organizer_id"` // acting or owning organizer
	EventID     *uint          `gorm:"index" json:"event_id"`     // no FK: deleted events keep their trail
	Action      string         `gorm:"size:100;not null;index" json:"action"`
	Details     datatypes.JSON `json:"details"`
	IPAddress   string         `gorm:"size:45" json:"ip_address"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Entry is what services hand to LogAction.
type Entry struct {
	OrganizerID *uint
	EventID     *uint
	Action      string
	Details     map[string]interface{}
	IP          string
}

// AuditLogResponse is one row of GET /audit-logs
type AuditLogResponse struct {
	ID                uint           `json:"id"`
	OrganizerID       *uint          `json:"organizer_id"`
	EventID           *uint          `json:"event_id"`
	Action            string         `json:"action"`
	Details           datatypes.JSON `json:"details"`
	IPAddress         string         `json:"ip_address"`
	CreatedAt         time.Time      `json:"created_at"`
	OrganizerUsername *string        `json:"organizer_username,omitempty"`
}

type AuditLogFilter struct {
	OrganizerID *uint
	EventID     *uint
	Action      string
	Limit       int
}
