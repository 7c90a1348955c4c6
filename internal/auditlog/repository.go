package auditlog

import (
	"context"

	"github.com/discoveryevent/ticketing-backend/database"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, log *AuditLog) error
	GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts a new audit log entry, inside the caller's transaction if any
func (r *repository) Create(ctx context.Context, log *AuditLog) error {
	return database.Conn(ctx, r.db).Create(log).Error
}

// GetByFilter lists audit logs newest first
func (r *repository) GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, error) {
	var logs []AuditLogResponse

	query := database.Conn(ctx, r.db).
		Table("audit_logs al").
		Select(`al.id, al.organizer_id, al.event_id, al.action,
			al.details, al.ip_address, al.created_at,
			o.username as organizer_username`).
		Joins("LEFT JOIN organizers o ON al.organizer_id = o.id")

	if filter.OrganizerID != nil {
		query = query.Where("al.organizer_id = ?", *filter.OrganizerID)
	}
	if filter.EventID != nil {
		query = query.Where("al.event_id = ?", *filter.EventID)
	}
	if filter.Action != "" {
		query = query.Where("al.action = ?", filter.Action)
	}

	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}

	err := query.Order("al.created_at DESC").Order("al.id DESC").Limit(filter.Limit).Scan(&logs).Error
	return logs, err
}
