package risk

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики риск-ядра
// ============================================================
//
// Использование:
// - Grafana дашборды для визуализации работы цикла
// - Alertmanager для алертов на остановку торговли и рост отказов

// ============ Метрики цикла ============

// CyclesTotal - количество завершённых риск-циклов
var CyclesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "riskguard",
		Subsystem: "risk",
		Name:      "cycles_total",
		Help:      "Total number of completed risk management cycles",
	},
	[]string{"result"}, // completed, halted (guardrail), error
)

// CycleDuration - длительность одного риск-цикла
var CycleDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "riskguard",
		Subsystem: "risk",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of a full risk management cycle in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
)

// PositionsEvaluated - количество оценённых позиций
var PositionsEvaluated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "riskguard",
		Subsystem: "risk",
		Name:      "positions_evaluated_total",
		Help:      "Total number of position evaluations",
	},
	[]string{"outcome"}, // triggered, no_rule, no_price, no_r_value
)

// StopLossFallbacks - оценки позиций без зафиксированного
// initial_stop_loss (использована фоллбек-дистанция).
// Рост метрики - проблема качества данных на стороне открытия позиций.
var StopLossFallbacks = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "riskguard",
		Subsystem: "risk",
		Name:      "stop_loss_fallbacks_total",
		Help:      "Position evaluations that used the fallback stop loss distance",
	},
	[]string{"symbol"},
)

// ============ Метрики правил ============

// RulesTriggered - срабатывания правил по именам
var RulesTriggered = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "riskguard",
		Subsystem: "risk",
		Name:      "rules_triggered_total",
		Help:      "Total number of rule triggers by rule name",
	},
	[]string{"rule"},
)

// RMultipleObserved - наблюдаемые значения R-multiple
var RMultipleObserved = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "riskguard",
		Subsystem: "risk",
		Name:      "r_multiple_observed",
		Help:      "Observed R-multiple values per evaluation",
		Buckets:   []float64{-3, -2, -1, -0.5, 0, 0.5, 1, 2, 3, 5, 10},
	},
	[]string{"symbol"},
)

// ============ Метрики guardrail ============

// TradingEnabled - состояние kill switch (1 = торговля разрешена)
var TradingEnabled = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "riskguard",
		Subsystem: "risk",
		Name:      "trading_enabled",
		Help:      "Kill switch state (1=trading enabled, 0=halted)",
	},
)

// GuardrailBreaches - срабатывания лимитов убытков
var GuardrailBreaches = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "riskguard",
		Subsystem: "risk",
		Name:      "guardrail_breaches_total",
		Help:      "Total number of PnL guardrail breaches",
	},
	[]string{"window"}, // daily, weekly
)

// RealizedPnL - последний рассчитанный realized PnL по окнам
var RealizedPnL = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "riskguard",
		Subsystem: "risk",
		Name:      "realized_pnl_usd",
		Help:      "Last computed realized PnL in USD by window",
	},
	[]string{"window"},
)
