package model

import (
	"time"

	"github.com/google/uuid"
)

// users
type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	DisplayName  string `gorm:"type:varchar(255)"`
	ContactPhone string `gorm:"type:varchar(32)"`

	Note string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Навигационные поля (опционально)
	Client   *Client   `gorm:"foreignKey:UserID"`
	Provider *Provider `gorm:"foreignKey:UserID"`
}

// clients
type Client struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index"`

	Comment string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
