package risk

import (
	"context"
	"fmt"
	"math"
	"strings"

	"riskguard/internal/models"
	"riskguard/pkg/utils"
)

// executor.go - исполнение сработавшего правила
//
// Последовательность побочных эффектов фиксированная:
// ордер -> журнал -> уведомление. Провал шага не откатывает
// предыдущие (внешний эффект уже состоялся), но обрывает цепочку:
// после сбоя журнала уведомление не ставится. Orphan-ордер (без
// строки журнала) - принятый режим деградации, сверка делается
// вручную через TransactionRepository.CountByOrderID.

// ActionExecutor исполняет действия правил риск-менеджмента
type ActionExecutor struct {
	placer   OrderPlacer
	ledger   Ledger
	notifier Notifier
	logger   *utils.Logger
}

// NewActionExecutor создает новый экземпляр исполнителя
func NewActionExecutor(placer OrderPlacer, ledger Ledger, notifier Notifier, logger *utils.Logger) *ActionExecutor {
	return &ActionExecutor{
		placer:   placer,
		ledger:   ledger,
		notifier: notifier,
		logger:   logger.WithComponent("action_executor"),
	}
}

// Execute выполняет действие правила для позиции.
//
// Ошибка возвращается только при неожиданном сбое размещения ордера;
// подавленный дубликат и отказ бизнес-правила завершают цепочку
// молча (orderID == 0).
func (e *ActionExecutor) Execute(ctx context.Context, pos *models.Position, rule Rule, price float64) error {
	switch rule.Action {
	case ActionClosePartial:
		return e.closePartial(ctx, pos, rule, price)
	case ActionBreakeven, ActionTrailing:
		// Модификация стопов требует интеграции с exchange order
		// management - пока только фиксируем срабатывание
		e.logger.Warn("rule action not implemented, skipping",
			utils.Rule(rule.Name),
			utils.String("action", rule.Action),
			utils.PositionID(pos.ID),
		)
		return nil
	default:
		return fmt.Errorf("unknown rule action %q", rule.Action)
	}
}

// closePartial закрывает долю позиции рыночным ордером
func (e *ActionExecutor) closePartial(ctx context.Context, pos *models.Position, rule Rule, price float64) error {
	if rule.ClosePercent <= 0 || rule.ClosePercent > 1 {
		return fmt.Errorf("rule %s: close percent must be in (0, 1], got %v", rule.Name, rule.ClosePercent)
	}

	closeQty := math.Abs(pos.Quantity) * rule.ClosePercent

	decision := models.ClosingDecision{
		Symbol:   pos.Symbol,
		Side:     pos.Side().Opposite(),
		Quantity: closeQty,
	}

	orderID, err := e.placer.Place(ctx, pos.AccountID, decision)
	if err != nil {
		return fmt.Errorf("place closing order for position %d: %w", pos.ID, err)
	}
	if orderID == 0 {
		// Дубликат или отказ бизнес-правила: ордер не создан,
		// журнал и уведомление не пишутся
		e.logger.Info("closing order suppressed, side effect chain stopped",
			utils.PositionID(pos.ID),
			utils.Rule(rule.Name),
		)
		return nil
	}

	e.logger.Info("closing order placed",
		utils.PositionID(pos.ID),
		utils.OrderID(orderID),
		utils.Rule(rule.Name),
		utils.Quantity(closeQty),
		utils.Price(price),
	)

	ledgerTx := &models.Transaction{
		AccountID:      pos.AccountID,
		RelatedOrderID: orderID,
		Type:           models.TxTypeRiskActionPrefix + strings.ToUpper(rule.Name),
		Amount:         closeQty,
	}
	if err := e.ledger.Append(ctx, ledgerTx); err != nil {
		// Ордер остаётся в хранилище без строки журнала (orphan),
		// цепочка обрывается: уведомление не ставится
		e.logger.Error("ledger append failed, order is orphan",
			utils.OrderID(orderID),
			utils.PositionID(pos.ID),
			utils.Err(err),
		)
		return nil
	}

	notif := &models.Notification{
		Severity:  models.SeverityInfo,
		Title:     fmt.Sprintf("Risk Action: %s", rule.Name),
		Message:   fmt.Sprintf("Closed %.0f%% of %s position %d (qty %v) at R trigger", rule.ClosePercent*100, pos.Symbol, pos.ID, closeQty),
		DedupeKey: fmt.Sprintf("risk-action-%d-%s-%d", pos.ID, rule.Name, orderID),
		Meta: map[string]interface{}{
			"position_id": pos.ID,
			"order_id":    orderID,
			"rule":        rule.Name,
			"quantity":    closeQty,
			"price":       price,
		},
	}
	if err := e.notifier.Enqueue(ctx, notif); err != nil {
		e.logger.Error("notification enqueue failed",
			utils.OrderID(orderID),
			utils.Err(err),
		)
	}

	return nil
}
