package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// keyedMutex — мьютекс на ключ (провайдер, день). Сериализует
// check-and-write планировщика по одному провайдеру, не блокируя остальных.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func scheduleKey(providerID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("%s|%s", providerID, day.UTC().Format("2006-01-02"))
}

// Lock захватывает мьютекс ключа и возвращает функцию освобождения.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
