package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// availability_slots — леджер доступности: по одной записи на
// (provider_id, date, starts_at). Запись никогда не удаляется:
// создание брони переводит её в available=false, отмена — обратно в true.
// Пишут сюда только планировщик и переходы статусов, UI — только читает.
type AvailabilitySlot struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ProviderID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_availability_key" json:"providerId"`
	Date       datatypes.Date `gorm:"type:date;not null;uniqueIndex:idx_availability_key" json:"date"`
	StartsAt   time.Time      `gorm:"type:timestamp with time zone;not null;uniqueIndex:idx_availability_key" json:"startsAt"`
	EndsAt     time.Time      `gorm:"type:timestamp with time zone;not null" json:"endsAt"`

	Available bool `gorm:"not null" json:"available"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	Provider *Provider `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// SlotView — проекция одного окна дневной сетки для выдачи наружу.
// Не хранится в БД, пересчитывается по активным броням на каждый запрос.
type SlotView struct {
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Available bool      `json:"available"`
}
