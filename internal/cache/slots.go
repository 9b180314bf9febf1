package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/utils"
)

// SlotCache кэширует проекцию дневной сетки слотов по (провайдер, день).
// Кэш — только ускорение чтения: инвалидация при каждом создании/отмене
// брони, короткий TTL на случай пропущенной инвалидации.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSlotCache(addr, password string, db int, ttl time.Duration) *SlotCache {
	if addr == "" {
		return nil
	}
	return &SlotCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// NewSlotCacheWithClient — для тестов с miniredis.
func NewSlotCacheWithClient(client *redis.Client, ttl time.Duration) *SlotCache {
	return &SlotCache{client: client, ttl: ttl}
}

func slotKey(providerID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("slots:%s:%s", providerID, day.UTC().Format("2006-01-02"))
}

// Get возвращает закэшированную сетку. Промах или любая ошибка — (nil, false).
func (c *SlotCache) Get(ctx context.Context, providerID uuid.UUID, day time.Time) ([]model.SlotView, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, slotKey(providerID, day)).Bytes()
	if err != nil {
		return nil, false
	}
	var slots []model.SlotView
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

// Set сохраняет сетку с TTL. Ошибки записи не фатальны, только лог.
func (c *SlotCache) Set(ctx context.Context, providerID uuid.UUID, day time.Time, slots []model.SlotView) {
	if c == nil {
		return
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, slotKey(providerID, day), data, c.ttl).Err(); err != nil {
		utils.GetLogger().Warn("slot cache set failed", zap.Error(err))
	}
}

// Invalidate сбрасывает сетку дня после изменения броней провайдера.
func (c *SlotCache) Invalidate(ctx context.Context, providerID uuid.UUID, day time.Time) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, slotKey(providerID, day)).Err(); err != nil {
		utils.GetLogger().Warn("slot cache invalidate failed", zap.Error(err))
	}
}
