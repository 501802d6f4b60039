package models

import "fmt"

// TradeSide - сторона сделки
type TradeSide string

const (
	SideBuy  TradeSide = "buy"
	SideSell TradeSide = "sell"
)

// Valid проверяет что сторона имеет допустимое значение
func (s TradeSide) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Opposite возвращает противоположную сторону
func (s TradeSide) Opposite() TradeSide {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// DecisionKind - вид торгового решения
type DecisionKind string

const (
	DecisionKindSignal  DecisionKind = "signal"  // решение от стратегии (webhook)
	DecisionKindClosing DecisionKind = "closing" // закрывающее решение риск-менеджера
)

// OrderIntent - нормализованные параметры решения для размещения ордера.
//
// Quantity == 0 означает "объём не задан" - протокол размещения
// подставит минимальный placeholder (пока нет position sizing).
// StopLoss/TakeProfit участвуют только в idempotency key; для
// закрывающих ордеров они нулевые.
type OrderIntent struct {
	Symbol     string
	Side       TradeSide
	Quantity   float64
	StopLoss   float64
	TakeProfit float64
	Kind       DecisionKind
}

// Decision - торговое решение, потребляемое протоколом размещения ордеров.
//
// Два варианта вместо одной универсальной схемы:
// - SignalDecision: сигнал стратегии, требует SL/TP и confidence
// - ClosingDecision: внутреннее закрытие позиции, требует только объём и сторону
//
// Разделение не даёт валидации сигналов отбрасывать закрывающие ордера
// из-за "обязательных" SL/TP, которые для них не имеют смысла.
type Decision interface {
	Intent() OrderIntent
	Validate() error
}

// SignalDecision - решение, полученное от стратегии (webhook alert)
type SignalDecision struct {
	Symbol     string    `json:"symbol"`
	Side       TradeSide `json:"side"`
	Quantity   float64   `json:"quantity,omitempty"` // 0 = объём определит исполнение
	StopLoss   float64   `json:"stop_loss"`
	TakeProfit float64   `json:"take_profit"`
	Confidence float64   `json:"confidence"` // 0.0 - 1.0
}

// Intent возвращает параметры размещения ордера
func (d SignalDecision) Intent() OrderIntent {
	return OrderIntent{
		Symbol:     d.Symbol,
		Side:       d.Side,
		Quantity:   d.Quantity,
		StopLoss:   d.StopLoss,
		TakeProfit: d.TakeProfit,
		Kind:       DecisionKindSignal,
	}
}

// Validate проверяет корректность сигнального решения
func (d SignalDecision) Validate() error {
	if d.Symbol == "" {
		return fmt.Errorf("signal decision: symbol is required")
	}
	if !d.Side.Valid() {
		return fmt.Errorf("signal decision: invalid side %q", d.Side)
	}
	if d.StopLoss <= 0 {
		return fmt.Errorf("signal decision: stop loss must be positive, got %v", d.StopLoss)
	}
	if d.TakeProfit <= 0 {
		return fmt.Errorf("signal decision: take profit must be positive, got %v", d.TakeProfit)
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("signal decision: confidence must be in [0, 1], got %v", d.Confidence)
	}
	if d.Quantity < 0 {
		return fmt.Errorf("signal decision: quantity must not be negative, got %v", d.Quantity)
	}
	return nil
}

// ClosingDecision - системное решение о закрытии (части) позиции.
//
// Создаётся риск-менеджером, а не стратегией, поэтому confidence
// не несёт информации и зафиксирован на максимуме.
type ClosingDecision struct {
	Symbol   string    `json:"symbol"`
	Side     TradeSide `json:"side"`
	Quantity float64   `json:"quantity"`
}

// Intent возвращает параметры размещения ордера.
// SL/TP нулевые - для закрывающего ордера они не имеют смысла.
func (d ClosingDecision) Intent() OrderIntent {
	return OrderIntent{
		Symbol:   d.Symbol,
		Side:     d.Side,
		Quantity: d.Quantity,
		Kind:     DecisionKindClosing,
	}
}

// Validate проверяет корректность закрывающего решения
func (d ClosingDecision) Validate() error {
	if d.Symbol == "" {
		return fmt.Errorf("closing decision: symbol is required")
	}
	if !d.Side.Valid() {
		return fmt.Errorf("closing decision: invalid side %q", d.Side)
	}
	if d.Quantity <= 0 {
		return fmt.Errorf("closing decision: quantity must be positive, got %v", d.Quantity)
	}
	return nil
}
