package handler

import (
	"net/http"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/Leganyst/booking-core/internal/config"
)

// NewRouter собирает gin-роутер ядра: API бронирования, здоровье, метрики.
func NewRouter(cfg *config.Config, h *BookingHandler) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	if cfg.MaxRequestsPerMin > 0 {
		r.Use(rateLimit(cfg.MaxRequestsPerMin))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.POST("/bookings", h.CreateBooking)
		api.GET("/bookings", h.ListBookings)
		api.POST("/bookings/:id/confirm", h.ConfirmBooking)
		api.POST("/bookings/:id/cancel", h.CancelBooking)
		api.POST("/bookings/:id/complete", h.CompleteBooking)

		api.GET("/providers/:id/slots", h.GetAvailableSlots)
		api.GET("/providers/:id/ledger", h.GetLedger)
		api.GET("/providers/:id/stats", h.GetProviderStats)

		api.POST("/clients", h.RegisterClient)
		api.POST("/providers", h.RegisterProvider)

		api.GET("/stats", h.GetBookingStats)
	}

	return r
}

// rateLimit — ограничение запросов по IP клиента.
func rateLimit(perMin int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[ip]
		if !ok {
			l = rate.NewLimiter(rate.Limit(float64(perMin)/60.0), perMin)
			limiters[ip] = l
		}
		return l
	}

	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
