package models

import "time"

// Transaction - строка append-only журнала финансовых событий.
//
// Журнал никогда не обновляется и не удаляется после вставки:
// хранилище защищает таблицу триггером, а репозиторий не предоставляет
// Update/Delete операций. Корректировки - только новые строки.
type Transaction struct {
	ID             int64     `json:"id" db:"id"`
	AccountID      int64     `json:"account_id" db:"account_id"`
	RelatedOrderID int64     `json:"related_order_id" db:"related_order_id"`
	Type           string    `json:"transaction_type" db:"transaction_type"`
	Amount         float64   `json:"amount" db:"amount"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Типы транзакций, участвующие в расчёте realized PnL.
// Риск-действия логируются с префиксом TxTypeRiskActionPrefix и
// в PnL не входят (amount там - объём актива, а не USD).
const (
	TxTypeRealizedGain = "REALIZED_GAIN"
	TxTypeRealizedLoss = "REALIZED_LOSS"
	TxTypeFee          = "FEE"
	TxTypeFunding      = "FUNDING"

	TxTypeRiskActionPrefix = "RISK_ACTION_"
)

// PnLBearingTxTypes - типы транзакций, суммируемые в realized PnL
// для guardrail проверки лимитов убытков.
var PnLBearingTxTypes = []string{
	TxTypeRealizedGain,
	TxTypeRealizedLoss,
	TxTypeFee,
	TxTypeFunding,
}
