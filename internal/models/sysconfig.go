package models

import "time"

// SystemConfiguration - глобальная конфигурация торговли (singleton, id=1).
//
// IsTradingEnabled - kill switch: false останавливает все новые
// риск-действия. Сбрасывается guardrail-проверкой при пробое лимита
// убытков, обратно включается только оператором.
//
// Лимиты - положительные величины в USD; пробой это
// pnl < -limit за соответствующее окно.
type SystemConfiguration struct {
	ID                 int64     `json:"id" db:"id"`
	IsTradingEnabled   bool      `json:"is_trading_enabled" db:"is_trading_enabled"`
	DailyLossLimitUSD  float64   `json:"daily_loss_limit_usd" db:"daily_loss_limit_usd"`
	WeeklyLossLimitUSD float64   `json:"weekly_loss_limit_usd" db:"weekly_loss_limit_usd"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}
