package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config — вся конфигурация ядра. Источники: env и опциональный config.yaml.
type Config struct {
	AppPort string `mapstructure:"APP_PORT"`
	Env     string `mapstructure:"ENV"`

	DB DBConfig `mapstructure:",squash"`

	// Бизнес-часы в минутах от полуночи: дефолт 10:00–23:00.
	DayStartMin     int `mapstructure:"DAY_START_MIN"`
	DayEndMin       int `mapstructure:"DAY_END_MIN"`
	SlotDurationMin int `mapstructure:"SLOT_DURATION_MIN"`

	// Доля комиссии площадки от суммы брони.
	CommissionRate float64 `mapstructure:"COMMISSION_RATE"`

	// Redis для кэша проекции слотов. Пустой адрес — кэш выключен.
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB    int    `mapstructure:"REDIS_CACHE_DB"`
	SlotCacheTTLSec int    `mapstructure:"SLOT_CACHE_TTL_SEC"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`
}

type DBConfig struct {
	Host            string `mapstructure:"DB_HOST"`
	Port            int    `mapstructure:"DB_PORT"`
	User            string `mapstructure:"DB_USER"`
	Password        string `mapstructure:"DB_PASSWORD"`
	Name            string `mapstructure:"DB_NAME"`
	SSLMode         string `mapstructure:"DB_SSLMODE"`
	TimeZone        string `mapstructure:"DB_TIMEZONE"`
	MaxOpenConns    int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifeTime int    `mapstructure:"DB_CONN_MAX_LIFETIME_MIN"` // минут
}

// Load читает конфигурацию: config.yaml (если есть) поверх env поверх дефолтов.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")

	v.SetDefault("DB_HOST", "postgres")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "booking")
	v.SetDefault("DB_PASSWORD", "booking")
	v.SetDefault("DB_NAME", "booking_db")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MIN", 30)

	v.SetDefault("DAY_START_MIN", 600)  // 10:00
	v.SetDefault("DAY_END_MIN", 1380)   // 23:00
	v.SetDefault("SLOT_DURATION_MIN", 60)

	v.SetDefault("COMMISSION_RATE", 0.15)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("SLOT_CACHE_TTL_SEC", 30)

	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)

	// Файл опционален: при его отсутствии работаем только на env.
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, fmt.Errorf("invalid DB config: host/user/name must not be empty")
	}
	if cfg.DayEndMin <= cfg.DayStartMin {
		return nil, fmt.Errorf("invalid business hours: DAY_END_MIN must be greater than DAY_START_MIN")
	}
	if cfg.CommissionRate < 0 || cfg.CommissionRate >= 1 {
		return nil, fmt.Errorf("invalid COMMISSION_RATE: %v", cfg.CommissionRate)
	}

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
