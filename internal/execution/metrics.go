package execution

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus метрики протокола размещения ордеров

// OrdersPlaced - исходы размещения по результатам
var OrdersPlaced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "riskguard",
		Subsystem: "execution",
		Name:      "orders_placed_total",
		Help:      "Order placement outcomes",
	},
	[]string{"result"}, // placed, duplicate, rejected, skipped, error
)

// PlacementDuration - длительность полного протокола размещения
var PlacementDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "riskguard",
		Subsystem: "execution",
		Name:      "placement_duration_seconds",
		Help:      "Duration of the order placement protocol in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
)
