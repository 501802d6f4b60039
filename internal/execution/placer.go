package execution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"riskguard/internal/models"
	"riskguard/internal/repository"
	"riskguard/pkg/utils"
)

// placer.go - протокол размещения ордеров
//
// Место принятия решения "ордер не создан - это ожидаемо или сбой":
// - дубликат idempotency key: подавляется, (0, nil)
// - отказ бизнес-правила хранилища (check constraint, триггер):
//   подавляется, (0, nil)
// - неизвестный инструмент, объём ниже лимитов: подавляется, (0, nil)
// - всё остальное: (0, err), эскалируется вызывающим кодом
//
// orderID == 0 при nil ошибке означает для вызывающего кода
// "цепочку побочных эффектов не продолжать".

// DefaultOrderQuantity - placeholder объём пока нет position sizing
const DefaultOrderQuantity = 0.01

// InstrumentResolver резолвит канонический символ в инструмент биржи
type InstrumentResolver interface {
	ResolveBySymbol(ctx context.Context, symbol string) (*models.Instrument, error)
}

// OrderStore создаёт запись ордера
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
}

// PriceQuoter отдаёт последнюю цену для проверки min_notional
type PriceQuoter interface {
	LatestPrice(ctx context.Context, symbol string) (float64, error)
}

// Placer - протокол размещения ордеров
type Placer struct {
	orders      OrderStore
	instruments InstrumentResolver
	quotes      PriceQuoter // nil = min_notional проверяет только хранилище
	keys        *KeyGenerator

	defaultQty float64

	logger *utils.Logger
}

// NewPlacer создает новый экземпляр протокола размещения
func NewPlacer(orders OrderStore, instruments InstrumentResolver, quotes PriceQuoter, defaultQty float64, logger *utils.Logger) *Placer {
	if defaultQty <= 0 {
		defaultQty = DefaultOrderQuantity
	}
	return &Placer{
		orders:      orders,
		instruments: instruments,
		quotes:      quotes,
		keys:        NewKeyGenerator(),
		defaultQty:  defaultQty,
		logger:      logger.WithComponent("order_placer"),
	}
}

// Place размещает ордер по торговому решению.
// Возвращает ID созданного ордера, либо (0, nil) для подавленного
// размещения, либо (0, err) при неожиданном сбое.
func (p *Placer) Place(ctx context.Context, accountID int64, decision models.Decision) (int64, error) {
	start := time.Now()
	defer func() {
		PlacementDuration.Observe(time.Since(start).Seconds())
	}()

	if err := decision.Validate(); err != nil {
		OrdersPlaced.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("invalid decision: %w", err)
	}

	intent := decision.Intent()

	inst, err := p.instruments.ResolveBySymbol(ctx, intent.Symbol)
	if err != nil {
		if errors.Is(err, repository.ErrInstrumentNotFound) {
			p.logger.Warn("unknown instrument, order skipped",
				utils.Symbol(intent.Symbol),
				utils.AccountID(accountID),
			)
			OrdersPlaced.WithLabelValues("skipped").Inc()
			return 0, nil
		}
		OrdersPlaced.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("resolve instrument %s: %w", intent.Symbol, err)
	}

	qty := intent.Quantity
	if qty == 0 {
		qty = p.defaultQty
	}
	qty = utils.RoundToLotSize(qty, inst.LotSize)
	if qty <= 0 {
		p.logger.Warn("quantity rounds to zero, order skipped",
			utils.Symbol(intent.Symbol),
			utils.Quantity(intent.Quantity),
			utils.Float64("lot_size", inst.LotSize),
		)
		OrdersPlaced.WithLabelValues("skipped").Inc()
		return 0, nil
	}

	// Проверка min_notional по последней цене. Без цены проверка
	// пропускается - хранилище всё равно отклонит недопустимый ордер.
	if p.quotes != nil && inst.MinNotional > 0 {
		if price, err := p.quotes.LatestPrice(ctx, intent.Symbol); err == nil {
			if notional := utils.Notional(qty, price); notional < inst.MinNotional {
				p.logger.Warn("order below min notional, skipped",
					utils.Symbol(intent.Symbol),
					utils.Quantity(qty),
					utils.Float64("notional", notional),
					utils.Float64("min_notional", inst.MinNotional),
				)
				OrdersPlaced.WithLabelValues("skipped").Inc()
				return 0, nil
			}
		}
	}

	order := &models.Order{
		AccountID:      accountID,
		InstrumentID:   inst.ID,
		IdempotencyKey: p.keys.Key(accountID, intent),
		Side:           intent.Side,
		Type:           models.OrderTypeMarket,
		Status:         models.OrderStatusNew,
		Quantity:       qty,
	}

	if err := p.orders.Create(ctx, order); err != nil {
		switch {
		case repository.IsUniqueViolation(err):
			// Тот же ключ в пределах минуты: ордер уже есть
			p.logger.Warn("duplicate order suppressed",
				utils.Symbol(intent.Symbol),
				utils.AccountID(accountID),
				utils.IdemKey(order.IdempotencyKey),
			)
			OrdersPlaced.WithLabelValues("duplicate").Inc()
			return 0, nil
		case repository.IsConstraintRejection(err):
			p.logger.Warn("order rejected by store business rule",
				utils.Symbol(intent.Symbol),
				utils.AccountID(accountID),
				utils.Err(err),
			)
			OrdersPlaced.WithLabelValues("rejected").Inc()
			return 0, nil
		default:
			p.logger.Error("order placement failed",
				utils.Symbol(intent.Symbol),
				utils.AccountID(accountID),
				utils.Err(err),
			)
			OrdersPlaced.WithLabelValues("error").Inc()
			return 0, fmt.Errorf("create order: %w", err)
		}
	}

	p.logger.Info("order placed",
		utils.OrderID(order.ID),
		utils.Symbol(intent.Symbol),
		utils.Side(string(intent.Side)),
		utils.Quantity(qty),
	)
	OrdersPlaced.WithLabelValues("placed").Inc()
	return order.ID, nil
}
