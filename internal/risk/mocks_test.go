package risk

import (
	"context"
	"time"

	"riskguard/internal/models"
	"riskguard/pkg/utils"
)

// ============================================================
// Моки зависимостей риск-ядра для unit-тестов
// ============================================================

func newTestLogger() *utils.Logger {
	return utils.InitLogger(utils.LogConfig{Level: "fatal"})
}

type mockPositionSource struct {
	positions []*models.Position
	err       error
	calls     int
}

func (m *mockPositionSource) GetActive(ctx context.Context, accountID int64) ([]*models.Position, error) {
	m.calls++
	return m.positions, m.err
}

type mockPriceSource struct {
	price     float64
	err       error
	panicking bool
}

func (m *mockPriceSource) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	if m.panicking {
		panic("price source exploded")
	}
	return m.price, m.err
}

type mockPlacer struct {
	orderID int64
	err     error
	intents []models.OrderIntent
}

func (m *mockPlacer) Place(ctx context.Context, accountID int64, decision models.Decision) (int64, error) {
	m.intents = append(m.intents, decision.Intent())
	return m.orderID, m.err
}

type mockLedger struct {
	err     error
	entries []*models.Transaction
}

func (m *mockLedger) Append(ctx context.Context, tx *models.Transaction) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, tx)
	return nil
}

type mockNotifier struct {
	err    error
	notifs []*models.Notification
}

func (m *mockNotifier) Enqueue(ctx context.Context, notif *models.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.notifs = append(m.notifs, notif)
	return nil
}

type mockConfigSource struct {
	cfg         *models.SystemConfiguration
	getErr      error
	disabled    bool
	disableErr  error
	disableHits int
}

func (m *mockConfigSource) Get(ctx context.Context) (*models.SystemConfiguration, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.cfg, nil
}

func (m *mockConfigSource) DisableTrading(ctx context.Context) error {
	m.disableHits++
	if m.disableErr != nil {
		return m.disableErr
	}
	m.disabled = true
	return nil
}

// mockPnLSource отдаёт PnL по началу окна: тесты различают дневное
// и недельное окно по аргументу from
type mockPnLSource struct {
	byFrom map[time.Time]float64
	err    error
	froms  []time.Time
}

func (m *mockPnLSource) RealizedPnL(ctx context.Context, accountID int64, from, to time.Time) (float64, error) {
	m.froms = append(m.froms, from)
	if m.err != nil {
		return 0, m.err
	}
	return m.byFrom[from], nil
}

func floatPtr(v float64) *float64 {
	return &v
}
