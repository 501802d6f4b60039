package risk

import (
	"context"

	"riskguard/internal/models"
	"riskguard/pkg/utils"
)

// Evaluator оценивает одну позицию против таблицы правил.
//
// Деградация: недоступность цены пропускает позицию до следующего
// цикла, отсутствие R-значения (нулевой риск на единицу) - тоже.
// Оба случая не являются ошибками цикла.
type Evaluator struct {
	prices   PriceSource
	executor *ActionExecutor
	rules    []Rule
	logger   *utils.Logger
}

// NewEvaluator создает новый экземпляр оценщика
func NewEvaluator(prices PriceSource, executor *ActionExecutor, rules []Rule, logger *utils.Logger) *Evaluator {
	return &Evaluator{
		prices:   prices,
		executor: executor,
		rules:    rules,
		logger:   logger.WithComponent("evaluator"),
	}
}

// EvaluatePosition вычисляет R-multiple позиции и исполняет
// сработавшее правило (не больше одного за оценку)
func (e *Evaluator) EvaluatePosition(ctx context.Context, pos *models.Position) error {
	price, err := e.prices.LatestPrice(ctx, pos.Symbol)
	if err != nil {
		e.logger.Warn("price unavailable, skipping position",
			utils.Symbol(pos.Symbol),
			utils.PositionID(pos.ID),
			utils.Err(err),
		)
		PositionsEvaluated.WithLabelValues("no_price").Inc()
		return nil
	}

	if _, explicit := EffectiveStopLoss(pos); !explicit {
		e.logger.Warn("initial stop loss missing, using fallback distance",
			utils.PositionID(pos.ID),
			utils.Symbol(pos.Symbol),
			utils.Float64("fallback_pct", FallbackStopLossPct),
		)
		StopLossFallbacks.WithLabelValues(pos.Symbol).Inc()
	}

	rMultiple, ok := RMultiple(pos, price)
	if !ok {
		e.logger.Debug("r-multiple undefined, skipping position",
			utils.PositionID(pos.ID),
			utils.Symbol(pos.Symbol),
		)
		PositionsEvaluated.WithLabelValues("no_r_value").Inc()
		return nil
	}
	RMultipleObserved.WithLabelValues(pos.Symbol).Observe(rMultiple)

	rule := SelectTriggered(e.rules, rMultiple)
	if rule == nil {
		PositionsEvaluated.WithLabelValues("no_rule").Inc()
		return nil
	}

	e.logger.Info("risk rule triggered",
		utils.PositionID(pos.ID),
		utils.Symbol(pos.Symbol),
		utils.Rule(rule.Name),
		utils.RMultiple(rMultiple),
		utils.Price(price),
	)
	PositionsEvaluated.WithLabelValues("triggered").Inc()
	RulesTriggered.WithLabelValues(rule.Name).Inc()

	return e.executor.Execute(ctx, pos, *rule, price)
}
