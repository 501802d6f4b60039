package models

import (
	"fmt"
	"time"
)

// TradingViewAlert - входящий webhook alert от TradingView
type TradingViewAlert struct {
	Symbol         string  `json:"symbol"`
	Side           string  `json:"side"` // buy, sell
	Price          float64 `json:"price"`
	Quantity       float64 `json:"qty,omitempty"`
	Strategy       string  `json:"strategy"`
	IdempotencyKey string  `json:"idempotency_key"`
}

// Validate проверяет обязательные поля alert'а
func (a *TradingViewAlert) Validate() error {
	if a.Symbol == "" {
		return fmt.Errorf("alert: symbol is required")
	}
	if a.Side != string(SideBuy) && a.Side != string(SideSell) {
		return fmt.Errorf("alert: invalid side %q", a.Side)
	}
	if a.Price <= 0 {
		return fmt.Errorf("alert: price must be positive, got %v", a.Price)
	}
	if a.IdempotencyKey == "" {
		return fmt.Errorf("alert: idempotency_key is required")
	}
	return nil
}

// InboundAlert - сырой alert, сохранённый для аудита и дедупликации
type InboundAlert struct {
	ID        int64     `json:"id" db:"id"`
	Source    string    `json:"source" db:"source"`
	DedupeKey string    `json:"dedupe_key" db:"dedupe_key"`
	Payload   []byte    `json:"payload" db:"payload"`
	Status    string    `json:"status" db:"status"` // received, parsed, error
	Error     string    `json:"error,omitempty" db:"error"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Статусы обработки входящего alert'а
const (
	AlertStatusReceived = "received"
	AlertStatusParsed   = "parsed"
	AlertStatusError    = "error"
)
