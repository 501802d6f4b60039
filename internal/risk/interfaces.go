package risk

import (
	"context"
	"time"

	"riskguard/internal/models"
)

// interfaces.go - зависимости риск-ядра
//
// Ядро работает против интерфейсов: конкретные реализации живут
// в internal/repository, internal/service, internal/execution и
// internal/feed и подставляются при сборке в cmd/server.

// PositionSource отдаёт активные позиции аккаунта
type PositionSource interface {
	GetActive(ctx context.Context, accountID int64) ([]*models.Position, error)
}

// PriceSource отдаёт последнюю известную цену символа
type PriceSource interface {
	LatestPrice(ctx context.Context, symbol string) (float64, error)
}

// OrderPlacer размещает ордер по торговому решению.
//
// Возвращённый orderID == 0 при nil ошибке означает что ордер
// не был создан по ожидаемой причине (дубликат idempotency key,
// отказ бизнес-правила хранилища) - вызывающий код прекращает
// цепочку побочных эффектов без эскалации.
type OrderPlacer interface {
	Place(ctx context.Context, accountID int64, decision models.Decision) (int64, error)
}

// Ledger - append-only журнал финансовых событий
type Ledger interface {
	Append(ctx context.Context, tx *models.Transaction) error
}

// Notifier ставит уведомление в outbox
type Notifier interface {
	Enqueue(ctx context.Context, notif *models.Notification) error
}

// ConfigSource - доступ к глобальной конфигурации торговли.
// Реализация кеширует чтения; DisableTrading сбрасывает кеш.
type ConfigSource interface {
	Get(ctx context.Context) (*models.SystemConfiguration, error)
	DisableTrading(ctx context.Context) error
}

// PnLSource считает realized PnL аккаунта за интервал [from, to)
type PnLSource interface {
	RealizedPnL(ctx context.Context, accountID int64, from, to time.Time) (float64, error)
}
