package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/booking-core/internal/model"
)

type UserRepository interface {
	// Создать пользователя по email или вернуть существующего,
	// обновив контактные данные.
	UpsertByEmail(ctx context.Context, email, displayName, contactPhone string) (*model.User, error)
	// Пользователь по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) UpsertByEmail(
	ctx context.Context,
	email, displayName, contactPhone string,
) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	switch {
	case err == nil:
		update := map[string]any{"updated_at": time.Now().UTC()}
		if displayName != "" {
			update["display_name"] = displayName
		}
		if contactPhone != "" {
			update["contact_phone"] = contactPhone
		}
		if err := r.db.WithContext(ctx).Model(&u).Updates(update).Error; err != nil {
			return nil, err
		}
		return &u, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		u = model.User{
			ID:           uuid.New(),
			Email:        email,
			DisplayName:  displayName,
			ContactPhone: contactPhone,
		}
		if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
			return nil, err
		}
		return &u, nil
	default:
		return nil, err
	}
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
