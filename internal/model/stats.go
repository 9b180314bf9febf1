package model

// BookingStats — агрегаты по броням одной из сторон.
// Earnings — сумма total_amount по завершённым броням провайдера;
// для клиента то же поле означает потраченную сумму.
type BookingStats struct {
	Total     int64   `json:"total"`
	Pending   int64   `json:"pending"`
	Confirmed int64   `json:"confirmed"`
	Completed int64   `json:"completed"`
	Cancelled int64   `json:"cancelled"`
	Earnings  float64 `json:"earnings"`
}
