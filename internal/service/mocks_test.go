package service

import (
	"context"
	"time"

	"riskguard/internal/models"
)

// ============================================================
// Моки репозиториев для unit-тестов сервисов
// ============================================================

type mockConfigRepo struct {
	cfg     *models.SystemConfiguration
	getErr  error
	setErr  error
	gets    int
	setHits []bool
}

func (m *mockConfigRepo) Get(ctx context.Context) (*models.SystemConfiguration, error) {
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	cfg := *m.cfg
	return &cfg, nil
}

func (m *mockConfigRepo) SetTradingEnabled(ctx context.Context, enabled bool) error {
	m.setHits = append(m.setHits, enabled)
	if m.setErr != nil {
		return m.setErr
	}
	m.cfg.IsTradingEnabled = enabled
	return nil
}

type mockNotifRepo struct {
	err     error
	notifs  []*models.Notification
	pending int
}

func (m *mockNotifRepo) Enqueue(ctx context.Context, notif *models.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.notifs = append(m.notifs, notif)
	return nil
}

func (m *mockNotifRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	return m.pending, nil
}

type mockOrderRepo struct {
	total    int
	rejected int
	err      error
}

func (m *mockOrderRepo) Count(ctx context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.total, nil
}

func (m *mockOrderRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.rejected, nil
}

type mockPositionRepo struct {
	active   int
	exposure float64
}

func (m *mockPositionRepo) CountActive(ctx context.Context) (int, error) {
	return m.active, nil
}

func (m *mockPositionRepo) GrossExposure(ctx context.Context) (float64, error) {
	return m.exposure, nil
}

func advanceClock(s *SystemService, start time.Time) *time.Time {
	current := start
	s.now = func() time.Time { return current }
	return &current
}
