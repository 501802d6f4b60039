package models

import "time"

// Order представляет запись об ордере
type Order struct {
	ID             int64     `json:"id" db:"id"`
	AccountID      int64     `json:"account_id" db:"account_id"`
	InstrumentID   int64     `json:"exchange_instrument_id" db:"exchange_instrument_id"`
	IdempotencyKey string    `json:"idempotency_key" db:"idempotency_key"`
	Side           TradeSide `json:"side" db:"side"`         // buy, sell
	Type           string    `json:"type" db:"type"`         // market
	Status         string    `json:"status" db:"status"`     // NEW, FILLED, CANCELLED, REJECTED
	Quantity       float64   `json:"quantity" db:"quantity"`
	Price          *float64  `json:"price,omitempty" db:"price"` // nil для market ордеров
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Типы ордеров
const (
	OrderTypeMarket = "market"
)

// Статусы ордера. NEW - начальный, остальные терминальные и неизменяемые.
const (
	OrderStatusNew       = "NEW"
	OrderStatusFilled    = "FILLED"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusRejected  = "REJECTED"
)
