package models

import "time"

// Position представляет открытую позицию по инструменту.
//
// Quantity знаковый: > 0 - long, < 0 - short.
// InitialStopLoss фиксируется при открытии позиции и не меняется;
// nil означает отсутствие данных (деградация, см. risk.Evaluator).
//
// Позиция принадлежит внешнему fill-процессингу: ядро риск-менеджмента
// читает её, но никогда не мутирует.
type Position struct {
	ID               int64      `json:"id" db:"id"`
	AccountID        int64      `json:"account_id" db:"account_id"`
	InstrumentID     int64      `json:"exchange_instrument_id" db:"exchange_instrument_id"`
	Symbol           string     `json:"symbol" db:"exchange_symbol"`
	Quantity         float64    `json:"quantity" db:"quantity"`
	AvgEntryPrice    float64    `json:"average_entry_price" db:"average_entry_price"`
	InitialStopLoss  *float64   `json:"initial_stop_loss,omitempty" db:"initial_stop_loss"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// IsLong возвращает true для длинной позиции
func (p *Position) IsLong() bool {
	return p.Quantity > 0
}

// Side возвращает сторону входа в позицию
func (p *Position) Side() TradeSide {
	if p.IsLong() {
		return SideBuy
	}
	return SideSell
}
