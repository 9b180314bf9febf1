package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/booking-core/internal/calendar"
	"github.com/Leganyst/booking-core/internal/metrics"
	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/repository"
)

// Переходы статусов брони. Правила:
//
//	pending   → confirmed  (только провайдер)
//	pending   → cancelled  (клиент или провайдер)
//	confirmed → cancelled  (клиент или провайдер; окно освобождается)
//	confirmed → completed  (по наступлению конца окна)
//
// Всё остальное — ErrInvalidTransition.

// ConfirmBooking переводит pending-бронь в confirmed. Подтвердить может
// только провайдер брони. Леджер не трогаем: окно занято с момента создания.
func (s *DefaultBookingService) ConfirmBooking(ctx context.Context, id, by uuid.UUID) (*model.Booking, error) {
	b, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.ProviderID != by {
		return nil, fmt.Errorf("%w: only the provider may confirm", ErrUnauthorized)
	}
	if !b.Status.CanTransitionTo(model.BookingStatusConfirmed) {
		return nil, fmt.Errorf("%w: %s → confirmed", ErrInvalidTransition, b.Status)
	}

	if err := s.bookings.Confirm(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoTransition) {
			// Статус успел поменяться между чтением и условным UPDATE.
			return nil, fmt.Errorf("%w: booking is no longer pending", ErrInvalidTransition)
		}
		return nil, fmt.Errorf("confirm booking: %w", err)
	}

	b.Status = model.BookingStatusConfirmed
	metrics.BookingsConfirmed.Inc()
	s.recordEvent(ctx, model.EventTypeBookingConfirmed, b, by, "")

	s.logger.Info("booking confirmed",
		zap.String("booking_id", id.String()),
		zap.String("provider_id", by.String()),
	)
	return b, nil
}

// CancelBooking отменяет pending- или confirmed-бронь. Отменить может любая
// из сторон. Окно в леджере освобождается той же транзакцией и снова
// доступно для бронирования.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, id, by uuid.UUID, reason string) (*model.Booking, error) {
	b, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.ClientID != by && b.ProviderID != by {
		return nil, fmt.Errorf("%w: only a booking party may cancel", ErrUnauthorized)
	}
	if !b.Status.CanTransitionTo(model.BookingStatusCancelled) {
		return nil, fmt.Errorf("%w: %s → cancelled", ErrInvalidTransition, b.Status)
	}

	now := s.now()
	if err := s.bookings.CancelAndRelease(ctx, b, reason, now); err != nil {
		if errors.Is(err, repository.ErrNoTransition) {
			return nil, fmt.Errorf("%w: booking is already finalized", ErrInvalidTransition)
		}
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	b.Status = model.BookingStatusCancelled
	b.CancelReason = reason
	b.CancelledAt = &now

	metrics.BookingsCancelled.Inc()
	s.slotCache.Invalidate(ctx, b.ProviderID, calendar.Midnight(b.StartsAt))
	s.recordEvent(ctx, model.EventTypeBookingCancelled, b, by, reason)

	s.logger.Info("booking cancelled",
		zap.String("booking_id", id.String()),
		zap.String("cancelled_by", by.String()),
		zap.String("reason", reason),
	)
	return b, nil
}

// CompleteBooking закрывает confirmed-бронь после конца её окна и
// инкрементирует счётчик завершённых бронирований провайдера. Вызывается
// по требованию (ручка API или периодический обход), не по таймеру.
func (s *DefaultBookingService) CompleteBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(model.BookingStatusCompleted) {
		return nil, fmt.Errorf("%w: %s → completed", ErrInvalidTransition, b.Status)
	}
	if s.now().Before(b.EndsAt) {
		return nil, fmt.Errorf("%w: booking window has not ended yet", ErrInvalidTransition)
	}

	if err := s.bookings.CompleteAndCount(ctx, b); err != nil {
		if errors.Is(err, repository.ErrNoTransition) {
			return nil, fmt.Errorf("%w: booking is no longer confirmed", ErrInvalidTransition)
		}
		return nil, fmt.Errorf("complete booking: %w", err)
	}

	b.Status = model.BookingStatusCompleted
	metrics.BookingsCompleted.Inc()
	s.recordEvent(ctx, model.EventTypeBookingCompleted, b, b.ProviderID, "")

	s.logger.Info("booking completed",
		zap.String("booking_id", id.String()),
		zap.String("provider_id", b.ProviderID.String()),
	)
	return b, nil
}

// SweepCompletable завершает все confirmed-брони, чьи окна уже закончились.
// Для периодического вызова планировщиком задач.
func (s *DefaultBookingService) SweepCompletable(ctx context.Context) (int, error) {
	now := s.now()
	confirmed := model.BookingStatusConfirmed
	list, _, err := s.bookings.List(ctx, repository.BookingFilter{
		Status: confirmed,
		DateTo: &now,
	})
	if err != nil {
		return 0, fmt.Errorf("list confirmed bookings: %w", err)
	}

	done := 0
	for i := range list {
		b := &list[i]
		if now.Before(b.EndsAt) {
			continue
		}
		if _, err := s.CompleteBooking(ctx, b.ID); err != nil {
			s.logger.Warn("sweep: complete failed",
				zap.String("booking_id", b.ID.String()),
				zap.Error(err),
			)
			continue
		}
		done++
	}
	return done, nil
}
