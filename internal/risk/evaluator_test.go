package risk

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"riskguard/internal/models"
)

// ============================================================
// Evaluator Tests
// ============================================================

func newTestEvaluator(prices PriceSource, placer OrderPlacer) *Evaluator {
	executor := NewActionExecutor(placer, &mockLedger{}, &mockNotifier{}, newTestLogger())
	return NewEvaluator(prices, executor, DefaultRules(), newTestLogger())
}

func btcLong() *models.Position {
	return &models.Position{
		ID:              7,
		AccountID:       1,
		Symbol:          "BTC/USDT",
		Quantity:        2.0,
		AvgEntryPrice:   50000,
		InitialStopLoss: floatPtr(49000), // риск 1000 на единицу
	}
}

func TestEvaluatorTriggersPartialClose(t *testing.T) {
	placer := &mockPlacer{orderID: 42}
	// 51500 -> R = 1.5 -> partial_profit_1R
	evaluator := newTestEvaluator(&mockPriceSource{price: 51500}, placer)

	if err := evaluator.EvaluatePosition(context.Background(), btcLong()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(placer.intents) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(placer.intents))
	}
	if placer.intents[0].Quantity != 0.5 {
		t.Errorf("expected quantity 0.5, got %v", placer.intents[0].Quantity)
	}
}

func TestEvaluatorBelowThresholdDoesNothing(t *testing.T) {
	placer := &mockPlacer{orderID: 42}
	// 50500 -> R = 0.5 -> ни одно правило не срабатывает
	evaluator := newTestEvaluator(&mockPriceSource{price: 50500}, placer)

	if err := evaluator.EvaluatePosition(context.Background(), btcLong()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(placer.intents) != 0 {
		t.Error("no placement expected below threshold")
	}
}

// Недоступность цены - деградация, не ошибка: позиция пропускается
func TestEvaluatorSkipsOnPriceFailure(t *testing.T) {
	placer := &mockPlacer{orderID: 42}
	evaluator := newTestEvaluator(&mockPriceSource{err: errors.New("feed disconnected")}, placer)

	if err := evaluator.EvaluatePosition(context.Background(), btcLong()); err != nil {
		t.Fatalf("price failure must not be an error, got %v", err)
	}
	if len(placer.intents) != 0 {
		t.Error("no placement expected without price")
	}
}

// Позиция без зафиксированного стопа оценивается по фоллбек-дистанции,
// но деградация видна снаружи: счётчик фоллбеков растёт
func TestEvaluatorFallbackStopLossIsObservable(t *testing.T) {
	placer := &mockPlacer{orderID: 42}
	// фоллбек-стоп 49000 (2% ниже входа), 51500 -> R = 1.5
	evaluator := newTestEvaluator(&mockPriceSource{price: 51500}, placer)

	pos := btcLong()
	pos.InitialStopLoss = nil

	counter := StopLossFallbacks.WithLabelValues(pos.Symbol)
	before := testutil.ToFloat64(counter)

	if err := evaluator.EvaluatePosition(context.Background(), pos); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("expected 1 fallback recorded, got %v", got)
	}
	if len(placer.intents) != 1 {
		t.Errorf("fallback stop must not block evaluation, got %d placements", len(placer.intents))
	}
}

// Явный стоп не трогает счётчик фоллбеков
func TestEvaluatorExplicitStopLossNoFallback(t *testing.T) {
	placer := &mockPlacer{orderID: 42}
	evaluator := newTestEvaluator(&mockPriceSource{price: 51500}, placer)

	counter := StopLossFallbacks.WithLabelValues("BTC/USDT")
	before := testutil.ToFloat64(counter)

	if err := evaluator.EvaluatePosition(context.Background(), btcLong()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(counter) - before; got != 0 {
		t.Errorf("explicit stop must not count as fallback, got %v", got)
	}
}

// Нулевой риск на единицу: R не определён, позиция пропускается
func TestEvaluatorSkipsOnUndefinedR(t *testing.T) {
	placer := &mockPlacer{orderID: 42}
	evaluator := newTestEvaluator(&mockPriceSource{price: 60000}, placer)

	pos := btcLong()
	pos.InitialStopLoss = floatPtr(50000) // стоп на входе

	if err := evaluator.EvaluatePosition(context.Background(), pos); err != nil {
		t.Fatalf("undefined R must not be an error, got %v", err)
	}
	if len(placer.intents) != 0 {
		t.Error("no placement expected for undefined R")
	}
}
