package model

import (
	"time"

	"github.com/google/uuid"
)

// Тип события аудита.
type EventType string

const (
	EventTypeBookingCreated   EventType = "booking_created"
	EventTypeBookingConfirmed EventType = "booking_confirmed"
	EventTypeBookingCancelled EventType = "booking_cancelled"
	EventTypeBookingCompleted EventType = "booking_completed"
)

// events — события аудита жизненного цикла бронирований.
type Event struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;index"`

	// Сторона, инициировавшая событие: клиент или провайдер.
	ActorID   *uuid.UUID `gorm:"type:uuid;index"`
	BookingID *uuid.UUID `gorm:"type:uuid;index"`

	Details string `gorm:"type:text"`

	// Навигационные поля
	Booking *Booking `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}
