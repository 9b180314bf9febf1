package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Leganyst/booking-core/internal/model"
)

// seedBooking вставляет бронь в заданном статусе напрямую, минуя сервис.
func (e *testEnv) seedBooking(t *testing.T, status model.BookingStatus, startHour int) *model.Booking {
	t.Helper()
	b := &model.Booking{
		ID:          uuid.New(),
		ClientID:    e.clients[0],
		ProviderID:  e.provider,
		Date:        datatypes.Date(testDay),
		StartsAt:    testDay.Add(time.Duration(startHour) * time.Hour),
		EndsAt:      testDay.Add(time.Duration(startHour+1) * time.Hour),
		DurationMin: 60,
		TotalAmount: 100,
		Commission:  15,
		Status:      status,
	}
	if err := e.db.Create(b).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b
}

// Полный перебор (статус, операция): допустимы только переходы
// pending→confirmed, pending|confirmed→cancelled, confirmed→completed.
func TestLifecycle_TransitionMatrix(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()
	env.svc.now = func() time.Time { return testDay.Add(23 * time.Hour) }

	statuses := []model.BookingStatus{
		model.BookingStatusPending,
		model.BookingStatusConfirmed,
		model.BookingStatusCompleted,
		model.BookingStatusCancelled,
	}

	type op struct {
		name string
		run  func(id uuid.UUID) error
	}
	ops := []op{
		{"confirm", func(id uuid.UUID) error {
			_, err := env.svc.ConfirmBooking(ctx, id, env.provider)
			return err
		}},
		{"cancel", func(id uuid.UUID) error {
			_, err := env.svc.CancelBooking(ctx, id, env.clients[0], "test")
			return err
		}},
		{"complete", func(id uuid.UUID) error {
			_, err := env.svc.CompleteBooking(ctx, id)
			return err
		}},
	}

	allowed := map[model.BookingStatus]map[string]bool{
		model.BookingStatusPending:   {"confirm": true, "cancel": true},
		model.BookingStatusConfirmed: {"cancel": true, "complete": true},
		model.BookingStatusCompleted: {},
		model.BookingStatusCancelled: {},
	}

	hour := 10
	for _, st := range statuses {
		for _, o := range ops {
			b := env.seedBooking(t, st, hour)
			hour++
			if hour > 22 {
				t.Fatalf("test grid exhausted the working day")
			}

			err := o.run(b.ID)
			if allowed[st][o.name] {
				if err != nil {
					t.Errorf("%s from %s: unexpected error %v", o.name, st, err)
				}
			} else if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("%s from %s: expected ErrInvalidTransition, got %v", o.name, st, err)
			}
		}
	}
}

func TestConfirmBooking_OnlyProvider(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()
	b := env.seedBooking(t, model.BookingStatusPending, 12)

	// Клиент не может подтвердить бронь.
	if _, err := env.svc.ConfirmBooking(ctx, b.ID, env.clients[0]); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	// Случайный UUID тем более.
	if _, err := env.svc.ConfirmBooking(ctx, b.ID, uuid.New()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for stranger, got %v", err)
	}

	if _, err := env.svc.ConfirmBooking(ctx, b.ID, env.provider); err != nil {
		t.Fatalf("provider confirm: %v", err)
	}
}

func TestCancelBooking_OnlyParties(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()

	b := env.seedBooking(t, model.BookingStatusConfirmed, 12)
	if _, err := env.svc.CancelBooking(ctx, b.ID, uuid.New(), "hijack"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for stranger, got %v", err)
	}

	// Провайдер может отменить свою бронь.
	cancelled, err := env.svc.CancelBooking(ctx, b.ID, env.provider, "provider sick")
	if err != nil {
		t.Fatalf("provider cancel: %v", err)
	}
	if cancelled.CancelReason != "provider sick" || cancelled.CancelledAt == nil {
		t.Fatalf("cancel metadata not set: %+v", cancelled)
	}
}

func TestCompleteBooking_NotBeforeWindowEnd(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()
	b := env.seedBooking(t, model.BookingStatusConfirmed, 14)

	// "Сейчас" — середина окна: завершать рано.
	env.svc.now = func() time.Time { return testDay.Add(14*time.Hour + 30*time.Minute) }
	if _, err := env.svc.CompleteBooking(ctx, b.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition before window end, got %v", err)
	}

	// Ровно конец окна — уже можно.
	env.svc.now = func() time.Time { return testDay.Add(15 * time.Hour) }
	done, err := env.svc.CompleteBooking(ctx, b.ID)
	if err != nil {
		t.Fatalf("complete at window end: %v", err)
	}
	if done.Status != model.BookingStatusCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}

	var p model.Provider
	if err := env.db.First(&p, "id = ?", env.provider).Error; err != nil {
		t.Fatalf("load provider: %v", err)
	}
	if p.CompletedBookings != 1 {
		t.Fatalf("expected completed counter 1, got %d", p.CompletedBookings)
	}
}

func TestLifecycle_UnknownBooking(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()

	if _, err := env.svc.ConfirmBooking(ctx, uuid.New(), env.provider); !errors.Is(err, ErrNotFound) {
		t.Fatalf("confirm: expected ErrNotFound, got %v", err)
	}
	if _, err := env.svc.CancelBooking(ctx, uuid.New(), env.clients[0], ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cancel: expected ErrNotFound, got %v", err)
	}
	if _, err := env.svc.CompleteBooking(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("complete: expected ErrNotFound, got %v", err)
	}
}

func TestSweepCompletable(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()

	ended := env.seedBooking(t, model.BookingStatusConfirmed, 10) // закончилась в 11:00
	ongoing := env.seedBooking(t, model.BookingStatusConfirmed, 14)
	pending := env.seedBooking(t, model.BookingStatusPending, 16)

	env.svc.now = func() time.Time { return testDay.Add(14*time.Hour + 30*time.Minute) }

	done, err := env.svc.SweepCompletable(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if done != 1 {
		t.Fatalf("expected 1 completion, got %d", done)
	}

	assertStatus := func(id uuid.UUID, want model.BookingStatus) {
		t.Helper()
		var b model.Booking
		if err := env.db.First(&b, "id = ?", id).Error; err != nil {
			t.Fatalf("load booking: %v", err)
		}
		if b.Status != want {
			t.Fatalf("booking %s: expected %s, got %s", id, want, b.Status)
		}
	}
	assertStatus(ended.ID, model.BookingStatusCompleted)
	assertStatus(ongoing.ID, model.BookingStatusConfirmed)
	assertStatus(pending.ID, model.BookingStatusPending)
}
