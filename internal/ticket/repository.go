package ticket

import (
	"context"

	"github.com/discoveryevent/ticketing-backend/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, t *Ticket) error
	FindByCode(ctx context.Context, code string) (*Ticket, error)
	ListByEvent(ctx context.Context, eventID uint) ([]Ticket, error)
	CountByEvent(ctx context.Context, eventID uint) (int64, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, t *Ticket) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(t).Error
}

// FindByCode is an exact match on the unique code.
func (r *repository) FindByCode(ctx context.Context, code string) (*Ticket, error) {
	var t Ticket
	err := database.Conn(ctx, r.db).
		Preload("Event").
		Where("ticket_code = ?", code).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByEvent returns tickets in insertion order.
func (r *repository) ListByEvent(ctx context.Context, eventID uint) ([]Ticket, error) {
	var tickets []Ticket
	err := database.Conn(ctx, r.db).
		Preload("Event").
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&tickets).Error
	return tickets, err
}

func (r *repository) CountByEvent(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&Ticket{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}
