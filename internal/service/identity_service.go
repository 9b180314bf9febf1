package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/repository"
)

// IdentityService — тонкий коллаборатор ядра: регистрация сторон и проверка
// их существования. Полное управление профилями живёт вне этого модуля.
type IdentityService struct {
	users     repository.UserRepository
	clients   repository.ClientRepository
	providers repository.ProviderRepository
}

func NewIdentityService(
	users repository.UserRepository,
	clients repository.ClientRepository,
	providers repository.ProviderRepository,
) *IdentityService {
	return &IdentityService{
		users:     users,
		clients:   clients,
		providers: providers,
	}
}

// RegisterClient создаёт (или находит по email) пользователя и заводит
// клиентский профиль.
func (s *IdentityService) RegisterClient(ctx context.Context, email, displayName, contactPhone string) (*model.Client, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	u, err := s.users.UpsertByEmail(ctx, email, displayName, contactPhone)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	c := &model.Client{UserID: u.ID}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

// RegisterProvider создаёт (или находит по email) пользователя и заводит
// профиль провайдера.
func (s *IdentityService) RegisterProvider(ctx context.Context, email, displayName, description string) (*model.Provider, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if displayName == "" {
		return nil, fmt.Errorf("%w: display name is required", ErrValidation)
	}

	u, err := s.users.UpsertByEmail(ctx, email, displayName, "")
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	p := &model.Provider{
		UserID:      u.ID,
		DisplayName: displayName,
		Description: description,
		IsActive:    true,
	}
	if err := s.providers.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	return p, nil
}

// ProviderStats возвращает счётчик завершённых бронирований провайдера.
func (s *IdentityService) ProviderStats(ctx context.Context, id uuid.UUID) (int64, error) {
	p, err := s.providers.GetByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("get provider: %w", err)
	}
	return p.CompletedBookings, nil
}
