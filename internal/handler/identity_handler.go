package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Leganyst/booking-core/internal/model"
)

type registerClientInput struct {
	Email        string `json:"email" binding:"required,email"`
	DisplayName  string `json:"displayName"`
	ContactPhone string `json:"contactPhone"`
}

// RegisterClient — POST /clients.
func (h *BookingHandler) RegisterClient(c *gin.Context) {
	var input registerClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	client, err := h.identity.RegisterClient(c.Request.Context(), input.Email, input.DisplayName, input.ContactPhone)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": client.ID, "userId": client.UserID})
}

type registerProviderInput struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"displayName" binding:"required"`
	Description string `json:"description"`
}

// RegisterProvider — POST /providers.
func (h *BookingHandler) RegisterProvider(c *gin.Context) {
	var input registerProviderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	p, err := h.identity.RegisterProvider(c.Request.Context(), input.Email, input.DisplayName, input.Description)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": p.ID, "userId": p.UserID, "displayName": p.DisplayName})
}

// GetProviderStats — GET /providers/:id/stats.
func (h *BookingHandler) GetProviderStats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	completed, err := h.identity.ProviderStats(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providerId": id, "completedBookings": completed})
}

// ===== разбор query-параметров =====

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func intQuery(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return def
	}
	return i
}

func bookingStatusFromQuery(s string) model.BookingStatus {
	switch model.BookingStatus(s) {
	case model.BookingStatusPending, model.BookingStatusConfirmed,
		model.BookingStatusCompleted, model.BookingStatusCancelled:
		return model.BookingStatus(s)
	default:
		return ""
	}
}
