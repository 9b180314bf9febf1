package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Leganyst/booking-core/internal/cache"
	"github.com/Leganyst/booking-core/internal/config"
	"github.com/Leganyst/booking-core/internal/db"
	"github.com/Leganyst/booking-core/internal/handler"
	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/repository"
	"github.com/Leganyst/booking-core/internal/service"
	"github.com/Leganyst/booking-core/internal/utils"
)

func main() {
	// 1. Конфиг из env/config.yaml.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. Логгер под окружение.
	utils.InitializeLogger(cfg.IsProduction())
	logger := utils.GetLogger()
	defer logger.Sync() //nolint:errcheck

	// 3. Подключаемся к БД через GORM и мигрируем модели.
	gormDB, err := db.NewGormDB(&cfg.DB)
	if err != nil {
		logger.Fatal("init db", zap.Error(err))
	}
	if err := model.AutoMigrate(gormDB); err != nil {
		logger.Fatal("auto migrate", zap.Error(err))
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("sql DB", zap.Error(err))
	}
	defer sqlDB.Close()

	// 4. Репозитории (реализации на GORM).
	bookingRepo := repository.NewGormBookingRepository(gormDB)
	availabilityRepo := repository.NewGormAvailabilityRepository(gormDB)
	providerRepo := repository.NewGormProviderRepository(gormDB)
	clientRepo := repository.NewGormClientRepository(gormDB)
	userRepo := repository.NewGormUserRepository(gormDB)
	eventRepo := repository.NewGormEventRepository(gormDB)

	// 5. Кэш проекции слотов (опционален, включается адресом Redis).
	slotCache := cache.NewSlotCache(
		cfg.RedisAddr,
		cfg.RedisPassword,
		cfg.RedisCacheDB,
		time.Duration(cfg.SlotCacheTTLSec)*time.Second,
	)

	// 6. Сервисы ядра.
	bookingSvc := service.NewBookingService(
		bookingRepo,
		availabilityRepo,
		providerRepo,
		clientRepo,
		eventRepo,
		slotCache,
		service.SchedulerConfig{
			DayStartMin:    cfg.DayStartMin,
			DayEndMin:      cfg.DayEndMin,
			SlotDuration:   time.Duration(cfg.SlotDurationMin) * time.Minute,
			CommissionRate: cfg.CommissionRate,
		},
	)
	identitySvc := service.NewIdentityService(userRepo, clientRepo, providerRepo)

	// 7. HTTP-сервер.
	h := handler.NewBookingHandler(bookingSvc, identitySvc)
	router := handler.NewRouter(cfg, h)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("booking core listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http serve", zap.Error(err))
		}
	}()

	// 8. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down http server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
