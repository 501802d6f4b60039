package risk

import (
	"context"
	"time"

	"riskguard/internal/models"
	"riskguard/pkg/utils"
)

// cycle.go - главный цикл риск-менеджмента
//
// Каждый цикл:
// 1. Guardrail: проверка kill switch и лимитов убытков
// 2. Выборка активных позиций аккаунта
// 3. Оценка каждой позиции против таблицы правил
//
// Паника при оценке одной позиции не роняет цикл: она
// перехватывается и позиция пропускается до следующего прохода.

// Engine - периодический исполнитель риск-циклов
type Engine struct {
	positions PositionSource
	guardrail *Guardrail
	evaluator *Evaluator

	accountID int64
	interval  time.Duration

	logger *utils.Logger
}

// NewEngine создает новый экземпляр движка
func NewEngine(positions PositionSource, guardrail *Guardrail, evaluator *Evaluator, accountID int64, interval time.Duration, logger *utils.Logger) *Engine {
	return &Engine{
		positions: positions,
		guardrail: guardrail,
		evaluator: evaluator,
		accountID: accountID,
		interval:  interval,
		logger:    logger.WithComponent("risk_engine"),
	}
}

// Run запускает периодические риск-циклы до отмены контекста
func (e *Engine) Run(ctx context.Context) {
	e.logger.Info("risk engine started",
		utils.AccountID(e.accountID),
		utils.String("interval", e.interval.String()),
	)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("risk engine stopped")
			return
		case <-ticker.C:
			e.RunCycle(ctx)
		}
	}
}

// RunCycle выполняет один полный риск-цикл
func (e *Engine) RunCycle(ctx context.Context) {
	start := time.Now()
	defer func() {
		CycleDuration.Observe(time.Since(start).Seconds())
	}()

	if !e.guardrail.Check(ctx) {
		CyclesTotal.WithLabelValues("halted").Inc()
		return
	}

	positions, err := e.positions.GetActive(ctx, e.accountID)
	if err != nil {
		e.logger.Error("failed to load active positions", utils.Err(err))
		CyclesTotal.WithLabelValues("error").Inc()
		return
	}

	for _, pos := range positions {
		e.evaluateSafe(ctx, pos)
	}

	CyclesTotal.WithLabelValues("completed").Inc()
	e.logger.Debug("risk cycle completed",
		utils.Int("positions", len(positions)),
		utils.Latency(float64(time.Since(start).Milliseconds())),
	)
}

// evaluateSafe оценивает позицию, изолируя панику
func (e *Engine) evaluateSafe(ctx context.Context, pos *models.Position) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic during position evaluation",
				utils.PositionID(pos.ID),
				utils.Any("panic", r),
			)
		}
	}()

	if err := e.evaluator.EvaluatePosition(ctx, pos); err != nil {
		e.logger.Error("position evaluation failed",
			utils.PositionID(pos.ID),
			utils.Symbol(pos.Symbol),
			utils.Err(err),
		)
	}
}
