package models

import "time"

// OpsKpiSnapshot - срез операционных KPI для /api/kpi
type OpsKpiSnapshot struct {
	Timestamp          time.Time `json:"ts"`
	OrdersTotal        int       `json:"orders_total"`
	OrdersRejected     int       `json:"orders_rejected"`
	OrderFailureRate   float64   `json:"order_failure_rate"`
	OpenPositionsCount int       `json:"open_positions_count"`
	GrossExposureUSD   float64   `json:"position_gross_exposure_usd"`
}
