package execution

import (
	"fmt"
	"math"

	"riskguard/internal/models"
)

// adapter.go - преобразование TradingView alert в торговое решение
//
// Alert несёт только символ, сторону и цену срабатывания. Уровни
// SL/TP достраиваются от цены: стоп на фиксированном проценте на
// убыточной стороне, тейк - на убыточной дистанции, умноженной на
// reward/risk.

const (
	// alertStopLossPct - дистанция до стопа как доля цены входа
	alertStopLossPct = 0.02

	// alertRewardRisk - отношение дистанции тейка к дистанции стопа
	alertRewardRisk = 1.5
)

// DecisionFromAlert строит сигнальное решение из alert'а
func DecisionFromAlert(alert *models.TradingViewAlert) (models.SignalDecision, error) {
	if err := alert.Validate(); err != nil {
		return models.SignalDecision{}, err
	}

	side := models.TradeSide(alert.Side)
	risk := alert.Price * alertStopLossPct

	var stopLoss, takeProfit float64
	if side == models.SideBuy {
		stopLoss = alert.Price - risk
		takeProfit = alert.Price + risk*alertRewardRisk
	} else {
		stopLoss = alert.Price + risk
		takeProfit = alert.Price - risk*alertRewardRisk
	}

	if takeProfit <= 0 || stopLoss <= 0 {
		return models.SignalDecision{}, fmt.Errorf("alert price %v too low to derive levels", alert.Price)
	}

	decision := models.SignalDecision{
		Symbol:     alert.Symbol,
		Side:       side,
		Quantity:   math.Abs(alert.Quantity),
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Confidence: 1.0,
	}

	if err := decision.Validate(); err != nil {
		return models.SignalDecision{}, err
	}
	return decision, nil
}
