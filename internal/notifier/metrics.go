package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики воркера доставки уведомлений
var (
	// DeliveriesTotal - исходы отправки по result: sent, failed
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "riskguard",
			Subsystem: "notifier",
			Name:      "deliveries_total",
			Help:      "Notification delivery attempts by result",
		},
		[]string{"result"},
	)

	// PendingQueueSize - размер очереди PENDING на момент прохода воркера
	PendingQueueSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "riskguard",
			Subsystem: "notifier",
			Name:      "pending_queue_size",
			Help:      "Notifications waiting for delivery",
		},
	)
)
