package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Leganyst/booking-core/internal/calendar"
	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/repository"
)

// Роль стороны брони в отчётных запросах.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
)

// ListBookings — постраничное чтение броней по фильтру. Только чтение
// зафиксированного состояния, никакой логики поверх.
func (s *DefaultBookingService) ListBookings(
	ctx context.Context,
	f repository.BookingFilter,
	page, pageSize int,
) (calendar.Page[model.Booking], error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	f.Limit = pageSize
	f.Offset = (page - 1) * pageSize

	items, total, err := s.bookings.List(ctx, f)
	if err != nil {
		return calendar.Page[model.Booking]{}, fmt.Errorf("list bookings: %w", err)
	}

	return calendar.NewPage(items, page, pageSize, int(total)), nil
}

// GetBookingStats — количество броней по статусам и сумма по завершённым
// (заработок провайдера либо траты клиента).
func (s *DefaultBookingService) GetBookingStats(ctx context.Context, userID uuid.UUID, role Role) (*model.BookingStats, error) {
	var column string
	switch role {
	case RoleClient:
		column = "client_id"
	case RoleProvider:
		column = "provider_id"
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	stats, err := s.bookings.Stats(ctx, column, userID)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	return stats, nil
}
