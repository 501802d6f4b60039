package service

import (
	"context"
	"time"

	"riskguard/internal/models"
	"riskguard/internal/repository"
)

// SystemConfigRepositoryInterface определяет интерфейс репозитория конфигурации
type SystemConfigRepositoryInterface interface {
	Get(ctx context.Context) (*models.SystemConfiguration, error)
	SetTradingEnabled(ctx context.Context, enabled bool) error
}

// NotificationRepositoryInterface определяет интерфейс репозитория уведомлений
type NotificationRepositoryInterface interface {
	Enqueue(ctx context.Context, notif *models.Notification) error
	CountByStatus(ctx context.Context, status string) (int, error)
}

// OrderRepositoryInterface определяет интерфейс репозитория ордеров
type OrderRepositoryInterface interface {
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}

// PositionRepositoryInterface определяет интерфейс репозитория позиций
type PositionRepositoryInterface interface {
	CountActive(ctx context.Context) (int, error)
	GrossExposure(ctx context.Context) (float64, error)
}

// TransactionRepositoryInterface определяет интерфейс журнала транзакций
type TransactionRepositoryInterface interface {
	RealizedPnL(ctx context.Context, accountID int64, from, to time.Time) (float64, error)
}

// Проверяем, что реальные репозитории реализуют интерфейсы
var _ SystemConfigRepositoryInterface = (*repository.SystemConfigRepository)(nil)
var _ NotificationRepositoryInterface = (*repository.NotificationRepository)(nil)
var _ OrderRepositoryInterface = (*repository.OrderRepository)(nil)
var _ PositionRepositoryInterface = (*repository.PositionRepository)(nil)
var _ TransactionRepositoryInterface = (*repository.TransactionRepository)(nil)
