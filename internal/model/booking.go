package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Таблица допустимых переходов статуса. Пустой список — терминальный статус.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

// CanTransitionTo проверяет переход по таблице статусов.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal — из статуса больше нет переходов.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// IsActive — бронирование удерживает окно в леджере доступности.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// bookings
type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ClientID   uuid.UUID `gorm:"type:uuid;not null;index" json:"clientId"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_provider_date" json:"providerId"`

	// Календарный день и окно [StartsAt, EndsAt) внутри него.
	Date     datatypes.Date `gorm:"type:date;not null;index:idx_bookings_provider_date" json:"date"`
	StartsAt time.Time      `gorm:"type:timestamp with time zone;not null" json:"startsAt"`
	EndsAt   time.Time      `gorm:"type:timestamp with time zone;not null" json:"endsAt"`

	// Производная длительность в минутах, денормализована для отчётов.
	DurationMin int64 `gorm:"not null" json:"durationMin"`

	TotalAmount float64 `gorm:"not null" json:"totalAmount"`
	// Комиссия площадки, фиксируется в момент создания.
	Commission float64 `gorm:"not null" json:"commission"`

	Status BookingStatus `gorm:"type:varchar(32);not null;index" json:"status"`

	Notes        string     `gorm:"type:text" json:"notes,omitempty"`
	CancelReason string     `gorm:"type:text" json:"cancelReason,omitempty"`
	CancelledAt  *time.Time `gorm:"type:timestamp with time zone" json:"cancelledAt,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	// Навигационные поля (опционально, для Preload).
	Client   *Client   `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Provider *Provider `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// Overlaps — пересечение полуоткрытых окон [StartsAt, EndsAt) двух бронирований.
func (b *Booking) Overlaps(other *Booking) bool {
	return b.StartsAt.Before(other.EndsAt) && other.StartsAt.Before(b.EndsAt)
}
