package models

// Instrument - торгуемый инструмент на бирже.
//
// LotSize и MinNotional используются протоколом размещения ордеров
// для нормализации объёма и проверки минимальной стоимости ордера
// (дублируют store-level триггеры, чтобы инварианты держались и без
// программируемых constraint'ов в хранилище).
type Instrument struct {
	ID             int64   `json:"id" db:"id"`
	Symbol         string  `json:"symbol" db:"symbol"`                   // внутренний символ, например BTC/USDT
	ExchangeSymbol string  `json:"exchange_symbol" db:"exchange_symbol"` // символ биржи, например BTCUSDT
	LotSize        float64 `json:"lot_size" db:"lot_size"`               // минимальный шаг объёма
	MinNotional    float64 `json:"min_notional" db:"min_notional"`       // минимальная стоимость ордера в котируемой валюте
}
