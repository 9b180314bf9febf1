package model

import (
	"time"

	"github.com/google/uuid"
)

// Provider — исполнитель услуг. Профиль принадлежит внешней подсистеме
// идентичности, ядру бронирования нужны только существование и счётчик.
type Provider struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index"`

	DisplayName string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`

	// Счётчик завершённых бронирований, инкрементируется при complete.
	CompletedBookings int64 `gorm:"not null;default:0"`

	IsActive bool `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`

	Bookings []Booking `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
