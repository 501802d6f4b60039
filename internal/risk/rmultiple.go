package risk

import (
	"math"

	"riskguard/internal/models"
)

// rmultiple.go - расчёт R-multiple позиции
//
// R-multiple - текущая прибыль позиции, выраженная в единицах
// первоначального риска: R = profit_per_unit / risk_per_unit,
// где risk_per_unit = |entry - initial_stop_loss|.
//
// Расчёт симметричен по направлению: для short прибыль считается
// от падения цены, поэтому R зависит только от того, насколько
// цена ушла в сторону позиции.

// FallbackStopLossPct - доля цены входа, используемая как дистанция
// до стопа если initial_stop_loss не зафиксирован. Фоллбек ставится
// на убыточную сторону позиции: ниже входа для long, выше для short.
const FallbackStopLossPct = 0.02

// EffectiveStopLoss возвращает стоп позиции либо фоллбек.
// Второе значение false когда использован фоллбек.
func EffectiveStopLoss(pos *models.Position) (float64, bool) {
	if pos.InitialStopLoss != nil {
		return *pos.InitialStopLoss, true
	}
	if pos.IsLong() {
		return pos.AvgEntryPrice * (1 - FallbackStopLossPct), false
	}
	return pos.AvgEntryPrice * (1 + FallbackStopLossPct), false
}

// RMultiple возвращает текущий R-multiple позиции при цене currentPrice.
//
// Второе значение false означает "нет значения": риск на единицу
// равен нулю (стоп совпадает с ценой входа) и деление не определено.
// Вызывающий код в этом случае пропускает позицию, а не считает R нулём.
func RMultiple(pos *models.Position, currentPrice float64) (float64, bool) {
	stopLoss, _ := EffectiveStopLoss(pos)

	riskPerUnit := math.Abs(pos.AvgEntryPrice - stopLoss)
	if riskPerUnit == 0 {
		return 0, false
	}

	var profitPerUnit float64
	if pos.IsLong() {
		profitPerUnit = currentPrice - pos.AvgEntryPrice
	} else {
		profitPerUnit = pos.AvgEntryPrice - currentPrice
	}

	return profitPerUnit / riskPerUnit, true
}
