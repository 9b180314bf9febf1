package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/booking-core/internal/model"
)

type EventRepository interface {
	// Записать событие аудита.
	Record(ctx context.Context, e *model.Event) error
	// События по брони, новые первыми.
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]model.Event, error)
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Record(ctx context.Context, e *model.Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *GormEventRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
