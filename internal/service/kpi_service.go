package service

import (
	"context"
	"time"

	"riskguard/internal/models"
)

// KpiService собирает операционные KPI для /api/kpi
type KpiService struct {
	orders    OrderRepositoryInterface
	positions PositionRepositoryInterface
}

// NewKpiService создает новый экземпляр сервиса
func NewKpiService(orders OrderRepositoryInterface, positions PositionRepositoryInterface) *KpiService {
	return &KpiService{
		orders:    orders,
		positions: positions,
	}
}

// Snapshot возвращает текущий срез KPI
func (s *KpiService) Snapshot(ctx context.Context) (*models.OpsKpiSnapshot, error) {
	ordersTotal, err := s.orders.Count(ctx)
	if err != nil {
		return nil, err
	}

	rejected, err := s.orders.CountByStatus(ctx, models.OrderStatusRejected)
	if err != nil {
		return nil, err
	}

	openPositions, err := s.positions.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	exposure, err := s.positions.GrossExposure(ctx)
	if err != nil {
		return nil, err
	}

	var failureRate float64
	if ordersTotal > 0 {
		failureRate = float64(rejected) / float64(ordersTotal)
	}

	return &models.OpsKpiSnapshot{
		Timestamp:          time.Now().UTC(),
		OrdersTotal:        ordersTotal,
		OrdersRejected:     rejected,
		OrderFailureRate:   failureRate,
		OpenPositionsCount: openPositions,
		GrossExposureUSD:   exposure,
	}, nil
}
