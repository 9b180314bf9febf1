package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/repository"
)

func newIdentityService(env *testEnv) *IdentityService {
	return NewIdentityService(
		repository.NewGormUserRepository(env.db),
		repository.NewGormClientRepository(env.db),
		repository.NewGormProviderRepository(env.db),
	)
}

func TestRegisterClient(t *testing.T) {
	env := newTestEnv(t, 0)
	svc := newIdentityService(env)
	ctx := context.Background()

	c, err := svc.RegisterClient(ctx, "alice@example.com", "Alice", "+7900")
	if err != nil {
		t.Fatalf("register client: %v", err)
	}

	var u model.User
	if err := env.db.First(&u, "id = ?", c.UserID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if u.Email != "alice@example.com" || u.DisplayName != "Alice" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := svc.RegisterClient(ctx, "", "NoEmail", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty email, got %v", err)
	}
}

// Повторная регистрация по тому же email переиспользует пользователя.
func TestRegisterProvider_ReusesUserByEmail(t *testing.T) {
	env := newTestEnv(t, 0)
	svc := newIdentityService(env)
	ctx := context.Background()

	c, err := svc.RegisterClient(ctx, "bob@example.com", "Bob", "")
	if err != nil {
		t.Fatalf("register client: %v", err)
	}
	p, err := svc.RegisterProvider(ctx, "bob@example.com", "Bob the Barber", "haircuts")
	if err != nil {
		t.Fatalf("register provider: %v", err)
	}
	if p.UserID != c.UserID {
		t.Fatalf("expected shared user, got %s vs %s", p.UserID, c.UserID)
	}
	if !p.IsActive {
		t.Fatalf("new provider must be active")
	}

	if _, err := svc.RegisterProvider(ctx, "x@example.com", "", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty display name, got %v", err)
	}
}

func TestProviderStats_Counter(t *testing.T) {
	env := newTestEnv(t, 1)
	svc := newIdentityService(env)
	ctx := context.Background()

	n, err := svc.ProviderStats(ctx, env.provider)
	if err != nil {
		t.Fatalf("provider stats: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected zero completed bookings, got %d", n)
	}
}
