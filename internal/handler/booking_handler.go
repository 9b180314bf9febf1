package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Leganyst/booking-core/internal/repository"
	"github.com/Leganyst/booking-core/internal/service"
)

type BookingHandler struct {
	bookings service.BookingService
	identity *service.IdentityService
}

func NewBookingHandler(bookings service.BookingService, identity *service.IdentityService) *BookingHandler {
	return &BookingHandler{bookings: bookings, identity: identity}
}

// statusFor транслирует ошибки ядра в HTTP-статусы.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSlotUnavailable):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

type createBookingInput struct {
	ClientID    uuid.UUID `json:"clientId" binding:"required"`
	ProviderID  uuid.UUID `json:"providerId" binding:"required"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	EndsAt      time.Time `json:"endsAt" binding:"required"`
	TotalAmount float64   `json:"totalAmount"`
	Notes       string    `json:"notes"`
}

// CreateBooking — POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input createBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.bookings.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		ClientID:    input.ClientID,
		ProviderID:  input.ProviderID,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		TotalAmount: input.TotalAmount,
		Notes:       input.Notes,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetAvailableSlots — GET /providers/:id/slots?date=2006-01-02.
func (h *BookingHandler) GetAvailableSlots(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}
	day, err := parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	slots, err := h.bookings.GetAvailableSlots(c.Request.Context(), providerID, day)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providerId": providerID, "date": day.Format("2006-01-02"), "slots": slots})
}

// GetLedger — GET /providers/:id/ledger?date=2006-01-02.
func (h *BookingHandler) GetLedger(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}
	day, err := parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	entries, err := h.bookings.GetLedger(c.Request.Context(), providerID, day)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providerId": providerID, "date": day.Format("2006-01-02"), "entries": entries})
}

type transitionInput struct {
	By     uuid.UUID `json:"by" binding:"required"`
	Reason string    `json:"reason"`
}

// ConfirmBooking — POST /bookings/:id/confirm.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	var input transitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.bookings.ConfirmBooking(c.Request.Context(), id, input.By)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBooking — POST /bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	var input transitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.bookings.CancelBooking(c.Request.Context(), id, input.By, input.Reason)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CompleteBooking — POST /bookings/:id/complete.
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	b, err := h.bookings.CompleteBooking(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookings — GET /bookings с фильтрами и пагинацией.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	var f repository.BookingFilter

	if v := c.Query("clientId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid clientId"})
			return
		}
		f.ClientID = &id
	}
	if v := c.Query("providerId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid providerId"})
			return
		}
		f.ProviderID = &id
	}
	if v := c.Query("status"); v != "" {
		f.Status = bookingStatusFromQuery(v)
		if f.Status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
	}
	if v := c.Query("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		f.DateFrom = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		// Верхняя граница — конец дня: фильтр по starts_at < to+1d.
		end := t.AddDate(0, 0, 1)
		f.DateTo = &end
	}
	if v := c.Query("minAmount"); v != "" {
		a, err := parseAmount(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid minAmount"})
			return
		}
		f.AmountMin = &a
	}
	if v := c.Query("maxAmount"); v != "" {
		a, err := parseAmount(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid maxAmount"})
			return
		}
		f.AmountMax = &a
	}

	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "pageSize", 20)

	result, err := h.bookings.ListBookings(c.Request.Context(), f, page, pageSize)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    result.Items,
		"page":     result.Page,
		"pageSize": result.PageSize,
		"hasNext":  result.HasNext,
		"hasPrev":  result.HasPrev,
		"total":    result.Total,
	})
}

// GetBookingStats — GET /stats?userId=&role=.
func (h *BookingHandler) GetBookingStats(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
		return
	}
	role := service.Role(c.Query("role"))

	stats, err := h.bookings.GetBookingStats(c.Request.Context(), userID, role)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
