package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// defaultFeedWSURL - публичный стрим Bybit v5 для linear перпетуалов
const defaultFeedWSURL = "wss://stream.bybit.com/v5/public/linear"

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Risk     RiskConfig
	Notifier NotifierConfig
	Feed     FeedConfig
	API      APIConfig
	Logging  LoggingConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig - настройки подключения к БД
type DatabaseConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RiskConfig - настройки риск-цикла и размещения ордеров
type RiskConfig struct {
	// AccountID - торговый счёт, которым управляет этот процесс
	AccountID int64

	// CycleInterval - период оценки открытых позиций
	CycleInterval time.Duration

	// DefaultOrderQuantity - количество для ордеров без явного qty
	DefaultOrderQuantity float64
}

// NotifierConfig - настройки воркера уведомлений
type NotifierConfig struct {
	TelegramToken  string
	TelegramChatID int64
	Interval       time.Duration
	BatchSize      int
}

// FeedConfig - настройки фида котировок
type FeedConfig struct {
	WSURL string
}

// APIConfig - настройки операторского API
type APIConfig struct {
	// AuthTokenHash - bcrypt-хеш токена X-Auth-Token.
	// Пустое значение закрывает /api/v1 полностью.
	AuthTokenHash string
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvAsInt("SERVER_PORT", 8080),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "riskguard"),
			User:     getEnv("DB_USER", "riskguard"),
			Password: getEnv("DB_PASSWORD", ""),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),

			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 15),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Risk: RiskConfig{
			AccountID:            getEnvAsInt64("RISK_ACCOUNT_ID", 1),
			CycleInterval:        getEnvAsDuration("RISK_CYCLE_INTERVAL", 25*time.Second),
			DefaultOrderQuantity: getEnvAsFloat("RISK_DEFAULT_ORDER_QTY", 0.01),
		},
		Notifier: NotifierConfig{
			TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
			TelegramChatID: getEnvAsInt64("TELEGRAM_CHAT_ID", 0),
			Interval:       getEnvAsDuration("NOTIFIER_INTERVAL", 10*time.Second),
			BatchSize:      getEnvAsInt("NOTIFIER_BATCH_SIZE", 20),
		},
		Feed: FeedConfig{
			WSURL: getEnv("FEED_WS_URL", defaultFeedWSURL),
		},
		API: APIConfig{
			AuthTokenHash: getEnv("API_TOKEN_HASH", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate проверяет диапазоны параметров
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("DB_PORT must be between 1 and 65535, got %d", c.Database.Port)
	}

	if c.Risk.AccountID <= 0 {
		return fmt.Errorf("RISK_ACCOUNT_ID must be positive, got %d", c.Risk.AccountID)
	}
	if c.Risk.CycleInterval <= 0 {
		return fmt.Errorf("RISK_CYCLE_INTERVAL must be positive, got %v", c.Risk.CycleInterval)
	}
	if c.Risk.DefaultOrderQuantity <= 0 {
		return fmt.Errorf("RISK_DEFAULT_ORDER_QTY must be positive, got %v", c.Risk.DefaultOrderQuantity)
	}

	if c.Notifier.Interval <= 0 {
		return fmt.Errorf("NOTIFIER_INTERVAL must be positive, got %v", c.Notifier.Interval)
	}
	if c.Notifier.BatchSize < 1 {
		return fmt.Errorf("NOTIFIER_BATCH_SIZE must be at least 1, got %d", c.Notifier.BatchSize)
	}
	// Токен без chat_id (и наоборот) - скорее всего забытая переменная
	if c.Notifier.TelegramToken != "" && c.Notifier.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	if c.Feed.WSURL == "" {
		return fmt.Errorf("FEED_WS_URL cannot be empty")
	}

	return nil
}

// DSN возвращает строку подключения к базе данных
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// DSNWithoutPassword возвращает строку подключения без пароля (для логирования)
func (d DatabaseConfig) DSNWithoutPassword() string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Name, d.SSLMode)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
