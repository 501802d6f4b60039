package handlers

import (
	"context"

	"riskguard/internal/models"
	"riskguard/pkg/utils"
)

// ============ Моки зависимостей handlers ============

func newTestLogger() *utils.Logger {
	return utils.InitLogger(utils.LogConfig{Level: "fatal"})
}

type mockAlertStore struct {
	created   []*models.InboundAlert
	createErr error
	statuses  map[int64]string
	errTexts  map[int64]string
	nextID    int64
}

func newMockAlertStore() *mockAlertStore {
	return &mockAlertStore{
		statuses: make(map[int64]string),
		errTexts: make(map[int64]string),
		nextID:   1,
	}
}

func (m *mockAlertStore) Create(ctx context.Context, alert *models.InboundAlert) error {
	if m.createErr != nil {
		return m.createErr
	}
	alert.ID = m.nextID
	m.nextID++
	m.created = append(m.created, alert)
	return nil
}

func (m *mockAlertStore) UpdateStatus(ctx context.Context, id int64, status string, errText string) error {
	m.statuses[id] = status
	m.errTexts[id] = errText
	return nil
}

type mockPlacer struct {
	decisions []models.Decision
	orderID   int64
	err       error
}

func (m *mockPlacer) Place(ctx context.Context, accountID int64, decision models.Decision) (int64, error) {
	m.decisions = append(m.decisions, decision)
	if m.err != nil {
		return 0, m.err
	}
	return m.orderID, nil
}

type mockConfigService struct {
	cfg     *models.SystemConfiguration
	getErr  error
	setErr  error
	setHits []bool
}

func (m *mockConfigService) Get(ctx context.Context) (*models.SystemConfiguration, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.cfg, nil
}

func (m *mockConfigService) SetTradingEnabled(ctx context.Context, enabled bool) error {
	m.setHits = append(m.setHits, enabled)
	return m.setErr
}

type mockPendingCounter struct {
	pending int
	err     error
}

func (m *mockPendingCounter) CountPending(ctx context.Context) (int, error) {
	return m.pending, m.err
}

type mockKpiProvider struct {
	snap *models.OpsKpiSnapshot
	err  error
}

func (m *mockKpiProvider) Snapshot(ctx context.Context) (*models.OpsKpiSnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snap, nil
}
