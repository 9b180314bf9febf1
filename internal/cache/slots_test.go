package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/Leganyst/booking-core/internal/model"
)

func newTestCache(t *testing.T, ttl time.Duration) (*SlotCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSlotCacheWithClient(client, ttl), mr
}

func sampleSlots(day time.Time) []model.SlotView {
	return []model.SlotView{
		{StartsAt: day.Add(10 * time.Hour), EndsAt: day.Add(11 * time.Hour), Available: true},
		{StartsAt: day.Add(11 * time.Hour), EndsAt: day.Add(12 * time.Hour), Available: false},
	}
}

func TestSlotCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	provider := uuid.New()
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	if _, ok := c.Get(ctx, provider, day); ok {
		t.Fatalf("expected miss on empty cache")
	}

	want := sampleSlots(day)
	c.Set(ctx, provider, day, want)

	got, ok := c.Get(ctx, provider, day)
	if !ok {
		t.Fatalf("expected hit after set")
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].StartsAt.Equal(want[i].StartsAt) || got[i].Available != want[i].Available {
			t.Fatalf("slot %d mismatch: got %+v, want %+v", i, got[i], want[i])
		}
	}

	// Другой день — свой ключ.
	if _, ok := c.Get(ctx, provider, day.AddDate(0, 0, 1)); ok {
		t.Fatalf("expected miss for another day")
	}
}

func TestSlotCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	provider := uuid.New()
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	c.Set(ctx, provider, day, sampleSlots(day))
	c.Invalidate(ctx, provider, day)

	if _, ok := c.Get(ctx, provider, day); ok {
		t.Fatalf("expected miss after invalidate")
	}
}

func TestSlotCache_TTLExpiry(t *testing.T) {
	c, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()
	provider := uuid.New()
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	c.Set(ctx, provider, day, sampleSlots(day))

	mr.FastForward(29 * time.Second)
	if _, ok := c.Get(ctx, provider, day); !ok {
		t.Fatalf("expected hit before TTL")
	}

	mr.FastForward(2 * time.Second)
	if _, ok := c.Get(ctx, provider, day); ok {
		t.Fatalf("expected miss after TTL")
	}
}

// Нулевой кэш (redis выключен конфигом) безопасен для всех операций.
func TestSlotCache_NilSafe(t *testing.T) {
	var c *SlotCache
	ctx := context.Background()
	provider := uuid.New()
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	if _, ok := c.Get(ctx, provider, day); ok {
		t.Fatalf("nil cache must always miss")
	}
	c.Set(ctx, provider, day, sampleSlots(day))
	c.Invalidate(ctx, provider, day)

	if got := NewSlotCache("", "", 0, time.Minute); got != nil {
		t.Fatalf("empty addr must disable the cache")
	}
}
