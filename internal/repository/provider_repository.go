package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/booking-core/internal/model"
)

type ProviderRepository interface {
	// Провайдер по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Provider, error)
	// Создать провайдера.
	Create(ctx context.Context, p *model.Provider) error
	// Существует ли активный провайдер.
	ExistsActive(ctx context.Context, id uuid.UUID) (bool, error)
}

type GormProviderRepository struct {
	db *gorm.DB
}

func NewGormProviderRepository(db *gorm.DB) *GormProviderRepository {
	return &GormProviderRepository{db: db}
}

func (r *GormProviderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Provider, error) {
	var p model.Provider
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProviderRepository) Create(ctx context.Context, p *model.Provider) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *GormProviderRepository) ExistsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Provider{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
