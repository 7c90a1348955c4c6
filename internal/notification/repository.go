package notification

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateNotificationLog(ctx context.Context, log *NotificationLog) error
	ListByTicketCode(ctx context.Context, code string) ([]NotificationLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateNotificationLog(ctx context.Context, log *NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) ListByTicketCode(ctx context.Context, code string) ([]NotificationLog, error) {
	var logs []NotificationLog
	err := r.db.WithContext(ctx).
		Where("ticket_code = ?", code).
		Order("id ASC").
		Find(&logs).Error
	return logs, err
}
