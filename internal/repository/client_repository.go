package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/booking-core/internal/model"
)

type ClientRepository interface {
	// Клиент по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	// Создать клиента.
	Create(ctx context.Context, c *model.Client) error
	// Существует ли клиент.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type GormClientRepository struct {
	db *gorm.DB
}

func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	var c model.Client
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormClientRepository) Create(ctx context.Context, c *model.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *GormClientRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Client{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
