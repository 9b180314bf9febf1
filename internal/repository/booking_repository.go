package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/booking-core/internal/model"
)

var (
	// Окно пересекается с активной бронью провайдера.
	ErrBookingConflict = errors.New("booking window conflicts with an existing booking")
	// Условный UPDATE не затронул ни одной строки: бронь не в ожидаемом статусе.
	ErrNoTransition = errors.New("booking is not in an allowed status for this transition")
)

// Фильтр чтения броней. Нулевые значения означают "без ограничения".
type BookingFilter struct {
	ClientID   *uuid.UUID
	ProviderID *uuid.UUID
	Status     model.BookingStatus
	DateFrom   *time.Time
	DateTo     *time.Time
	AmountMin  *float64
	AmountMax  *float64

	Limit  int
	Offset int
}

type BookingRepository interface {
	// Атомарная проверка конфликтов и вставка: внутри одной транзакции
	// блокируются активные брони провайдера на дату, выполняется тест
	// пересечения окон и, если конфликтов нет, вставляется бронь и
	// отмечается леджер (available=false). При пересечении — ErrBookingConflict.
	CreateWithNoConflict(ctx context.Context, b *model.Booking) error
	// Бронь по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	// Активные (pending/confirmed) брони провайдера за день.
	ListActiveByProviderDate(ctx context.Context, providerID uuid.UUID, date datatypes.Date) ([]model.Booking, error)
	// pending → confirmed, условным UPDATE.
	Confirm(ctx context.Context, id uuid.UUID) error
	// pending|confirmed → cancelled + освобождение окна в леджере, одной транзакцией.
	CancelAndRelease(ctx context.Context, b *model.Booking, reason string, at time.Time) error
	// confirmed → completed + инкремент счётчика завершённых у провайдера.
	CompleteAndCount(ctx context.Context, b *model.Booking) error
	// Список броней по фильтру с общим количеством.
	List(ctx context.Context, f BookingFilter) ([]model.Booking, int64, error)
	// Агрегаты по статусам и заработку для клиента или провайдера.
	Stats(ctx context.Context, column string, userID uuid.UUID) (*model.BookingStats, error)
}

// Реализация на GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

var activeStatuses = []model.BookingStatus{
	model.BookingStatusPending,
	model.BookingStatusConfirmed,
}

func (r *GormBookingRepository) CreateWithNoConflict(ctx context.Context, b *model.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Блокируем кандидатов на пересечение, чтобы параллельный insert
		// не прошёл между проверкой и записью. SQLite не знает FOR UPDATE,
		// но у него и так единственный писатель.
		q := tx.Model(&model.Booking{})
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var existing model.Booking
		err := q.
			Where("provider_id = ? AND status IN ?", b.ProviderID, activeStatuses).
			Where("date = ?", b.Date).
			Where("starts_at < ? AND ends_at > ?", b.EndsAt, b.StartsAt).
			Take(&existing).Error

		if err == nil {
			return ErrBookingConflict
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		now := time.Now().UTC()
		b.CreatedAt = now
		b.UpdatedAt = now

		if err := tx.Create(b).Error; err != nil {
			return err
		}

		return upsertAvailability(tx, &model.AvailabilitySlot{
			ProviderID: b.ProviderID,
			Date:       b.Date,
			StartsAt:   b.StartsAt,
			EndsAt:     b.EndsAt,
			Available:  false,
		})
	})
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) ListActiveByProviderDate(
	ctx context.Context,
	providerID uuid.UUID,
	date datatypes.Date,
) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Where("date = ?", date).
		Where("status IN ?", activeStatuses).
		Order("starts_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) Confirm(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ? AND status = ?", id, model.BookingStatusPending).
		Updates(map[string]any{
			"status":     model.BookingStatusConfirmed,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoTransition
	}
	return nil
}

func (r *GormBookingRepository) CancelAndRelease(
	ctx context.Context,
	b *model.Booking,
	reason string,
	at time.Time,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Booking{}).
			Where("id = ? AND status IN ?", b.ID, activeStatuses).
			Updates(map[string]any{
				"status":        model.BookingStatusCancelled,
				"cancel_reason": reason,
				"cancelled_at":  at,
				"updated_at":    at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoTransition
		}

		// Окно снова доступно для других клиентов.
		return upsertAvailability(tx, &model.AvailabilitySlot{
			ProviderID: b.ProviderID,
			Date:       b.Date,
			StartsAt:   b.StartsAt,
			EndsAt:     b.EndsAt,
			Available:  true,
		})
	})
}

func (r *GormBookingRepository) CompleteAndCount(ctx context.Context, b *model.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Booking{}).
			Where("id = ? AND status = ?", b.ID, model.BookingStatusConfirmed).
			Updates(map[string]any{
				"status":     model.BookingStatusCompleted,
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoTransition
		}

		return tx.Model(&model.Provider{}).
			Where("id = ?", b.ProviderID).
			UpdateColumn("completed_bookings", gorm.Expr("completed_bookings + 1")).
			Error
	})
}

func (r *GormBookingRepository) List(ctx context.Context, f BookingFilter) ([]model.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Booking{})

	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.ProviderID != nil {
		q = q.Where("provider_id = ?", *f.ProviderID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.DateFrom != nil {
		q = q.Where("starts_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("starts_at < ?", *f.DateTo)
	}
	if f.AmountMin != nil {
		q = q.Where("total_amount >= ?", *f.AmountMin)
	}
	if f.AmountMax != nil {
		q = q.Where("total_amount <= ?", *f.AmountMax)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var bookings []model.Booking
	if err := q.Order("starts_at DESC").Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// Stats считает количество броней по статусам и сумму total_amount по
// завершённым. column — "client_id" или "provider_id".
func (r *GormBookingRepository) Stats(ctx context.Context, column string, userID uuid.UUID) (*model.BookingStats, error) {
	type row struct {
		Status model.BookingStatus
		Cnt    int64
		Sum    float64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Select("status, COUNT(*) AS cnt, COALESCE(SUM(total_amount), 0) AS sum").
		Where(column+" = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &model.BookingStats{}
	for _, rw := range rows {
		stats.Total += rw.Cnt
		switch rw.Status {
		case model.BookingStatusPending:
			stats.Pending = rw.Cnt
		case model.BookingStatusConfirmed:
			stats.Confirmed = rw.Cnt
		case model.BookingStatusCompleted:
			stats.Completed = rw.Cnt
			stats.Earnings = rw.Sum
		case model.BookingStatusCancelled:
			stats.Cancelled = rw.Cnt
		}
	}
	return stats, nil
}
