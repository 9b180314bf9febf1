package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/booking-core/internal/model"
)

type AvailabilityRepository interface {
	// Upsert по составному ключу (provider_id, date, starts_at):
	// обновить, если запись есть, иначе вставить. Записи не удаляются.
	Upsert(ctx context.Context, slot *model.AvailabilitySlot) error
	// Все записи леджера провайдера за день.
	ListByProviderDate(ctx context.Context, providerID uuid.UUID, date datatypes.Date) ([]model.AvailabilitySlot, error)
}

// Реализация на GORM.
type GormAvailabilityRepository struct {
	db *gorm.DB
}

func NewGormAvailabilityRepository(db *gorm.DB) *GormAvailabilityRepository {
	return &GormAvailabilityRepository{db: db}
}

func (r *GormAvailabilityRepository) Upsert(ctx context.Context, slot *model.AvailabilitySlot) error {
	return upsertAvailability(r.db.WithContext(ctx), slot)
}

// upsertAvailability — общий код upsert, используется также внутри
// транзакций букинг-репозитория, чтобы вставка брони и отметка леджера
// были одной атомарной операцией.
func upsertAvailability(tx *gorm.DB, slot *model.AvailabilitySlot) error {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider_id"},
			{Name: "date"},
			{Name: "starts_at"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"ends_at":    slot.EndsAt,
			"available":  slot.Available,
			"updated_at": slot.UpdatedAt,
		}),
	}).Create(slot).Error
}

func (r *GormAvailabilityRepository) ListByProviderDate(
	ctx context.Context,
	providerID uuid.UUID,
	date datatypes.Date,
) ([]model.AvailabilitySlot, error) {
	var slots []model.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Where("date = ?", date).
		Order("starts_at ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}
