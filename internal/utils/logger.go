package utils

import (
	"log"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// InitializeLogger настраивает глобальный zap-логгер под окружение.
func InitializeLogger(production bool) {
	loggerOnce.Do(func() {
		var cfg zap.Config

		if production {
			cfg = zap.NewProductionConfig()
			cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		} else {
			cfg = zap.NewDevelopmentConfig()
			cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		var err error
		logger, err = cfg.Build()
		if err != nil {
			log.Fatalf("initialize logger: %v", err)
		}
	})
}

// GetLogger возвращает глобальный логгер (девелоперский, если Initialize не звали).
func GetLogger() *zap.Logger {
	if logger == nil {
		InitializeLogger(false)
	}
	return logger
}
