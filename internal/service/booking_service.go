package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/booking-core/internal/cache"
	"github.com/Leganyst/booking-core/internal/calendar"
	"github.com/Leganyst/booking-core/internal/metrics"
	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/repository"
	"github.com/Leganyst/booking-core/internal/utils"
)

// Параметры планировщика. Дефолты соответствуют рабочему дню 10:00–23:00
// с часовыми слотами и комиссией площадки 15%.
type SchedulerConfig struct {
	DayStartMin    int
	DayEndMin      int
	SlotDuration   time.Duration
	CommissionRate float64
}

type CreateBookingRequest struct {
	ClientID    uuid.UUID
	ProviderID  uuid.UUID
	StartsAt    time.Time
	EndsAt      time.Time
	TotalAmount float64
	Notes       string
}

// BookingService — единственный вход для UI/API-слоёв в ядро бронирования.
type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*model.Booking, error)
	GetAvailableSlots(ctx context.Context, providerID uuid.UUID, day time.Time) ([]model.SlotView, error)
	GetLedger(ctx context.Context, providerID uuid.UUID, day time.Time) ([]model.AvailabilitySlot, error)
	ConfirmBooking(ctx context.Context, id, by uuid.UUID) (*model.Booking, error)
	CancelBooking(ctx context.Context, id, by uuid.UUID, reason string) (*model.Booking, error)
	CompleteBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListBookings(ctx context.Context, f repository.BookingFilter, page, pageSize int) (calendar.Page[model.Booking], error)
	GetBookingStats(ctx context.Context, userID uuid.UUID, role Role) (*model.BookingStats, error)
}

type DefaultBookingService struct {
	bookings     repository.BookingRepository
	availability repository.AvailabilityRepository
	providers    repository.ProviderRepository
	clients      repository.ClientRepository
	events       repository.EventRepository

	slotCache *cache.SlotCache
	locks     *keyedMutex

	cfg    SchedulerConfig
	now    func() time.Time
	logger *zap.Logger
}

func NewBookingService(
	bookings repository.BookingRepository,
	availability repository.AvailabilityRepository,
	providers repository.ProviderRepository,
	clients repository.ClientRepository,
	events repository.EventRepository,
	slotCache *cache.SlotCache,
	cfg SchedulerConfig,
) *DefaultBookingService {
	if cfg.SlotDuration <= 0 {
		cfg.SlotDuration = time.Hour
	}
	return &DefaultBookingService{
		bookings:     bookings,
		availability: availability,
		providers:    providers,
		clients:      clients,
		events:       events,
		slotCache:    slotCache,
		locks:        newKeyedMutex(),
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       utils.GetLogger(),
	}
}

// CreateBooking проверяет отсутствие конфликтов и создаёт бронь в статусе
// pending, отмечая окно в леджере. Проверка и запись выполняются под
// мьютексом (провайдер, день) и внутри одной транзакции, так что два
// конкурентных запроса на пересекающиеся окна не могут пройти оба.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*model.Booking, error) {
	w, err := calendar.NewWindow(req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.TotalAmount < 0 {
		return nil, fmt.Errorf("%w: total amount must not be negative", ErrValidation)
	}

	ok, err := s.providers.ExistsActive(ctx, req.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("resolve provider: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: provider %s", ErrNotFound, req.ProviderID)
	}
	ok, err = s.clients.Exists(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("resolve client: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: client %s", ErrNotFound, req.ClientID)
	}

	day := w.Day()
	booking := &model.Booking{
		ClientID:    req.ClientID,
		ProviderID:  req.ProviderID,
		Date:        datatypes.Date(day),
		StartsAt:    w.Start,
		EndsAt:      w.End,
		DurationMin: w.Minutes(),
		TotalAmount: req.TotalAmount,
		Commission:  roundMoney(req.TotalAmount * s.cfg.CommissionRate),
		Status:      model.BookingStatusPending,
		Notes:       req.Notes,
	}

	unlock := s.locks.Lock(scheduleKey(req.ProviderID, day))
	defer unlock()

	// Сбой транзакции (конфликт сериализации и т.п.) может быть артефактом
	// конкуренции — повторяем check-and-write целиком, но не более двух раз.
	// Занятое окно не ретраим никогда.
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		lastErr = s.bookings.CreateWithNoConflict(ctx, booking)
		if lastErr == nil {
			break
		}
		if errors.Is(lastErr, repository.ErrBookingConflict) {
			metrics.BookingConflicts.Inc()
			return nil, fmt.Errorf("%w: provider %s window [%s, %s)",
				ErrSlotUnavailable, req.ProviderID,
				w.Start.Format("15:04"), w.End.Format("15:04"))
		}
		s.logger.Warn("create booking: transaction failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}
	if lastErr != nil {
		return nil, fmt.Errorf("create booking: %w", lastErr)
	}

	metrics.BookingsCreated.Inc()
	s.slotCache.Invalidate(ctx, req.ProviderID, day)
	s.recordEvent(ctx, model.EventTypeBookingCreated, booking, req.ClientID,
		fmt.Sprintf("window [%s, %s)", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339)))

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("provider_id", req.ProviderID.String()),
		zap.Time("starts_at", w.Start),
		zap.Time("ends_at", w.End),
	)
	return booking, nil
}

// GetAvailableSlots строит дневную сетку слотов и помечает занятые тем же
// тестом пересечения, что и CreateBooking. Только чтение, без резервирования:
// сетка пересчитывается по активным броням на каждый вызов.
func (s *DefaultBookingService) GetAvailableSlots(ctx context.Context, providerID uuid.UUID, day time.Time) ([]model.SlotView, error) {
	day = calendar.Midnight(day)

	if cached, ok := s.slotCache.Get(ctx, providerID, day); ok {
		return cached, nil
	}

	grid, err := calendar.DailyGrid(day, s.cfg.DayStartMin, s.cfg.DayEndMin, s.cfg.SlotDuration)
	if err != nil {
		return nil, fmt.Errorf("build daily grid: %w", err)
	}

	active, err := s.bookings.ListActiveByProviderDate(ctx, providerID, datatypes.Date(day))
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}

	busy := make([]calendar.Window, 0, len(active))
	for _, b := range active {
		busy = append(busy, calendar.Window{Start: b.StartsAt, End: b.EndsAt})
	}

	slots := make([]model.SlotView, 0, len(grid))
	for _, w := range grid {
		conflict, _ := calendar.HasConflict(w, busy)
		slots = append(slots, model.SlotView{
			StartsAt:  w.Start,
			EndsAt:    w.End,
			Available: !conflict,
		})
	}

	s.slotCache.Set(ctx, providerID, day, slots)
	return slots, nil
}

// GetLedger возвращает записи леджера доступности провайдера за день —
// историю блокировок и освобождений окон.
func (s *DefaultBookingService) GetLedger(ctx context.Context, providerID uuid.UUID, day time.Time) ([]model.AvailabilitySlot, error) {
	day = calendar.Midnight(day)
	return s.availability.ListByProviderDate(ctx, providerID, datatypes.Date(day))
}

func (s *DefaultBookingService) recordEvent(ctx context.Context, et model.EventType, b *model.Booking, actorID uuid.UUID, details string) {
	e := &model.Event{
		EventType: et,
		ActorID:   &actorID,
		BookingID: &b.ID,
		Details:   details,
	}
	// Аудит не должен ронять основную операцию.
	if err := s.events.Record(ctx, e); err != nil {
		s.logger.Warn("record audit event failed",
			zap.String("event_type", string(et)),
			zap.Error(err),
		)
	}
}

func (s *DefaultBookingService) getBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// roundMoney округляет до центов: денежные поля не должны накапливать
// плавающий дрейф.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
