package organizer

import (
	"context"

	"github.com/discoveryevent/ticketing-backend/database"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, o *Organizer) error
	FindByID(ctx context.Context, id uint) (*Organizer, error)
	FindByEmail(ctx context.Context, email string) (*Organizer, error)
	FindByUsername(ctx context.Context, username string) (*Organizer, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, o *Organizer) error {
	return database.Conn(ctx, r.db).Create(o).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Organizer, error) {
	var o Organizer
	if err := database.Conn(ctx, r.db).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// Used by login; returns gorm.ErrRecordNotFound for unknown emails
func (r *repository) FindByEmail(ctx context.Context, email string) (*Organizer, error) {
	var o Organizer
	if err := database.Conn(ctx, r.db).Where("email = ?", email).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*Organizer, error) {
	var o Organizer
	if err := database.Conn(ctx, r.db).Where("username = ?", username).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&Organizer{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
