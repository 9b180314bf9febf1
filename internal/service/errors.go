package service

import "errors"

// Ошибки ядра бронирования. Хендлеры транслируют их в HTTP-статусы,
// вызывающая сторона различает через errors.Is.
var (
	// Запрошенное окно пересекается с активной бронью провайдера.
	ErrSlotUnavailable = errors.New("slot unavailable")
	// Запрошенный переход статуса запрещён таблицей переходов.
	ErrInvalidTransition = errors.New("invalid booking status transition")
	// Бронь с таким ID не существует.
	ErrNotFound = errors.New("booking not found")
	// Вызывающий не является стороной брони, требуемой операцией.
	ErrUnauthorized = errors.New("caller is not allowed to perform this operation")
	// Некорректные параметры запроса (окно, сумма).
	ErrValidation = errors.New("invalid booking request")
)
