package risk

import (
	"context"
	"errors"
	"testing"

	"riskguard/internal/models"
)

// ============================================================
// ActionExecutor Tests
// ============================================================

func partialRule() Rule {
	return Rule{Name: "partial_profit_1R", ThresholdR: 1.0, Action: ActionClosePartial, ClosePercent: 0.25}
}

func TestExecutorClosePartialLong(t *testing.T) {
	placer := &mockPlacer{orderID: 42}
	ledger := &mockLedger{}
	notifier := &mockNotifier{}
	executor := NewActionExecutor(placer, ledger, notifier, newTestLogger())

	pos := &models.Position{
		ID:            7,
		AccountID:     1,
		Symbol:        "BTC/USDT",
		Quantity:      2.0,
		AvgEntryPrice: 50000,
	}

	err := executor.Execute(context.Background(), pos, partialRule(), 52500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(placer.intents) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(placer.intents))
	}
	intent := placer.intents[0]
	if intent.Side != models.SideSell {
		t.Errorf("long close must sell, got %s", intent.Side)
	}
	if intent.Quantity != 0.5 {
		t.Errorf("expected close quantity 0.5, got %v", intent.Quantity)
	}
	if intent.Kind != models.DecisionKindClosing {
		t.Errorf("expected closing decision, got %s", intent.Kind)
	}

	if len(ledger.entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(ledger.entries))
	}
	entry := ledger.entries[0]
	if entry.Type != "RISK_ACTION_PARTIAL_PROFIT_1R" {
		t.Errorf("unexpected ledger type: %s", entry.Type)
	}
	if entry.RelatedOrderID != 42 {
		t.Errorf("expected related order 42, got %d", entry.RelatedOrderID)
	}
	if entry.Amount != 0.5 {
		t.Errorf("expected amount 0.5, got %v", entry.Amount)
	}

	if len(notifier.notifs) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.notifs))
	}
	notif := notifier.notifs[0]
	if notif.Severity != models.SeverityInfo {
		t.Errorf("expected INFO severity, got %s", notif.Severity)
	}
	if notif.Title != "Risk Action: partial_profit_1R" {
		t.Errorf("unexpected title: %s", notif.Title)
	}
	if notif.DedupeKey != "risk-action-7-partial_profit_1R-42" {
		t.Errorf("unexpected dedupe key: %s", notif.DedupeKey)
	}
}

func TestExecutorClosePartialShort(t *testing.T) {
	placer := &mockPlacer{orderID: 43}
	executor := NewActionExecutor(placer, &mockLedger{}, &mockNotifier{}, newTestLogger())

	pos := &models.Position{
		ID:            9,
		AccountID:     1,
		Symbol:        "ETH/USDT",
		Quantity:      -2.0,
		AvgEntryPrice: 3000,
	}

	if err := executor.Execute(context.Background(), pos, partialRule(), 2850); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	intent := placer.intents[0]
	if intent.Side != models.SideBuy {
		t.Errorf("short close must buy, got %s", intent.Side)
	}
	if intent.Quantity != 0.5 {
		t.Errorf("expected close quantity 0.5 (abs of signed), got %v", intent.Quantity)
	}
}

// Подавленный ордер (дубликат или отказ) останавливает цепочку:
// без журнала, без уведомления, без ошибки
func TestExecutorSuppressedOrderStopsChain(t *testing.T) {
	placer := &mockPlacer{orderID: 0}
	ledger := &mockLedger{}
	notifier := &mockNotifier{}
	executor := NewActionExecutor(placer, ledger, notifier, newTestLogger())

	pos := &models.Position{ID: 7, AccountID: 1, Symbol: "BTC/USDT", Quantity: 2.0, AvgEntryPrice: 50000}

	if err := executor.Execute(context.Background(), pos, partialRule(), 52500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ledger.entries) != 0 {
		t.Error("suppressed order must not produce ledger entry")
	}
	if len(notifier.notifs) != 0 {
		t.Error("suppressed order must not produce notification")
	}
}

func TestExecutorPlacementErrorPropagates(t *testing.T) {
	placer := &mockPlacer{err: errors.New("database down")}
	ledger := &mockLedger{}
	executor := NewActionExecutor(placer, ledger, &mockNotifier{}, newTestLogger())

	pos := &models.Position{ID: 7, AccountID: 1, Symbol: "BTC/USDT", Quantity: 2.0, AvgEntryPrice: 50000}

	if err := executor.Execute(context.Background(), pos, partialRule(), 52500); err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(ledger.entries) != 0 {
		t.Error("failed placement must not produce ledger entry")
	}
}

// Провал журнала не откатывает ордер, но обрывает цепочку:
// ордер остаётся в хранилище, уведомление не ставится
func TestExecutorLedgerFailureLeavesOrphan(t *testing.T) {
	placer := &mockPlacer{orderID: 42}
	ledger := &mockLedger{err: errors.New("database down")}
	notifier := &mockNotifier{}
	executor := NewActionExecutor(placer, ledger, notifier, newTestLogger())

	pos := &models.Position{ID: 7, AccountID: 1, Symbol: "BTC/USDT", Quantity: 2.0, AvgEntryPrice: 50000}

	if err := executor.Execute(context.Background(), pos, partialRule(), 52500); err != nil {
		t.Fatalf("expected no error for independent side effect failure, got %v", err)
	}
	if len(placer.intents) != 1 {
		t.Fatalf("order placement must survive ledger failure, got %d placements", len(placer.intents))
	}
	if len(notifier.notifs) != 0 {
		t.Fatalf("expected no notification after ledger failure, got %d", len(notifier.notifs))
	}
}

func TestExecutorNotificationFailureIsNotFatal(t *testing.T) {
	executor := NewActionExecutor(&mockPlacer{orderID: 42}, &mockLedger{}, &mockNotifier{err: errors.New("outbox down")}, newTestLogger())

	pos := &models.Position{ID: 7, AccountID: 1, Symbol: "BTC/USDT", Quantity: 2.0, AvgEntryPrice: 50000}

	if err := executor.Execute(context.Background(), pos, partialRule(), 52500); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestExecutorUnimplementedActions(t *testing.T) {
	placer := &mockPlacer{orderID: 42}
	ledger := &mockLedger{}
	executor := NewActionExecutor(placer, ledger, &mockNotifier{}, newTestLogger())

	pos := &models.Position{ID: 7, AccountID: 1, Symbol: "BTC/USDT", Quantity: 2.0, AvgEntryPrice: 50000}

	for _, rule := range []Rule{
		{Name: "breakeven_2R", ThresholdR: 2.0, Action: ActionBreakeven},
		{Name: "trailing_stop_3R", ThresholdR: 3.0, Action: ActionTrailing},
	} {
		if err := executor.Execute(context.Background(), pos, rule, 55000); err != nil {
			t.Errorf("rule %s: unexpected error: %v", rule.Name, err)
		}
	}

	if len(placer.intents) != 0 {
		t.Error("unimplemented actions must not place orders")
	}
	if len(ledger.entries) != 0 {
		t.Error("unimplemented actions must not write ledger entries")
	}
}

func TestExecutorInvalidClosePercent(t *testing.T) {
	executor := NewActionExecutor(&mockPlacer{}, &mockLedger{}, &mockNotifier{}, newTestLogger())
	pos := &models.Position{ID: 7, AccountID: 1, Symbol: "BTC/USDT", Quantity: 2.0, AvgEntryPrice: 50000}

	for _, pct := range []float64{0, -0.25, 1.5} {
		rule := Rule{Name: "bad_rule", Action: ActionClosePartial, ClosePercent: pct}
		if err := executor.Execute(context.Background(), pos, rule, 52500); err == nil {
			t.Errorf("close percent %v: expected error, got nil", pct)
		}
	}
}
