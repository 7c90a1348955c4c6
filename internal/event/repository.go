package event

import (
	"context"
	"errors"
	"strings"

	"github.com/discoveryevent/ticketing-backend/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, e *Event) error
	FindByID(ctx context.Context, id uint) (*Event, error)
	List(ctx context.Context, q ListQuery) ([]Event, error)
	ListByOrganizer(ctx context.Context, organizerID uint) ([]Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id uint) error
	ReserveSeat(ctx context.Context, id uint) (bool, error)
}

// ErrCapacityBelowSold is returned by Update when the new capacity is
// smaller than the tickets already sold.
var ErrCapacityBelowSold = errors.New("capacity is below tickets already sold")

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

// scheduleOrder sorts by date, then time, with id breaking ties.
func scheduleOrder(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Table: "events", Name: "date"}},
		{Column: clause.Column{Table: "events", Name: "time"}},
		{Column: clause.Column{Table: "events", Name: "id"}},
	}})
}

// ===========================
// 🎯 Create Event
func (r *repository) Create(ctx context.Context, e *Event) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(e).Error
}

// ===========================
// 🔍 Get Event By ID (with organizer)
func (r *repository) FindByID(ctx context.Context, id uint) (*Event, error) {
	var e Event
	if err := database.Conn(ctx, r.db).Preload("Organizer").First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ===========================
// 📄 List Events
func (r *repository) List(ctx context.Context, q ListQuery) ([]Event, error) {
	var events []Event
	err := database.Conn(ctx, r.db).
		Preload("Organizer").
		Scopes(matching(q), scheduleOrder).
		Find(&events).Error
	return events, err
}

func matching(q ListQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if loc := strings.TrimSpace(q.Location); loc != "" {
			db = db.Where(`LOWER(events.location) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(loc))+"%")
		}
		if q.From != nil {
			db = db.Where("events.date >= ?", *q.From)
		}
		if q.To != nil {
			db = db.Where("events.date <= ?", *q.To)
		}
		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (r *repository) ListByOrganizer(ctx context.Context, organizerID uint) ([]Event, error) {
	var events []Event
	err := database.Conn(ctx, r.db).
		Preload("Organizer").
		Where("organizer_id = ?", organizerID).
		Scopes(scheduleOrder).
		Find(&events).Error
	return events, err
}

// ===========================
// 🛠 Update Event
// Update writes every column except tickets_sold. A capacity below the
// stored tickets_sold is refused in the same statement.
func (r *repository) Update(ctx context.Context, e *Event) error {
	q := database.Conn(ctx, r.db).Model(e).
		Select("*").
		Omit("ID", "CreatedAt", "TicketsSold", clause.Associations)
	if e.Capacity != nil {
		q = q.Where("tickets_sold <= ?", *e.Capacity)
	}
	res := q.Updates(e)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCapacityBelowSold
	}
	return nil
}

// ===========================
// 🎟 Reserve Seat
// ReserveSeat counts one sold ticket against the event. It reports false
// when the event is sold out.
func (r *repository) ReserveSeat(ctx context.Context, id uint) (bool, error) {
	res := database.Conn(ctx, r.db).Model(&Event{}).
		Where("id = ? AND (capacity IS NULL OR tickets_sold < capacity)", id).
		UpdateColumn("tickets_sold", gorm.Expr("tickets_sold + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ===========================
// 🗑 Delete Event
func (r *repository) Delete(ctx context.Context, id uint) error {
	res := database.Conn(ctx, r.db).Delete(&Event{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
