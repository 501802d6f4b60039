package handlers

import (
	stdjson "encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"riskguard/internal/models"
)

// ============ KpiHandler Tests ============

func TestKpiHandler_GetKpi(t *testing.T) {
	t.Run("returns snapshot", func(t *testing.T) {
		kpi := &mockKpiProvider{
			snap: &models.OpsKpiSnapshot{
				Timestamp:          time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC),
				OrdersTotal:        40,
				OrdersRejected:     4,
				OrderFailureRate:   0.1,
				OpenPositionsCount: 3,
				GrossExposureUSD:   12500.75,
			},
		}
		handler := NewKpiHandler(kpi, newTestLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/kpi", nil)
		w := httptest.NewRecorder()
		handler.GetKpi(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}

		var resp models.OpsKpiSnapshot
		if err := stdjson.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.OrdersTotal != 40 || resp.OrderFailureRate != 0.1 {
			t.Errorf("unexpected snapshot: %+v", resp)
		}
	})

	t.Run("returns 500 on service error", func(t *testing.T) {
		kpi := &mockKpiProvider{err: errors.New("connection refused")}
		handler := NewKpiHandler(kpi, newTestLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/kpi", nil)
		w := httptest.NewRecorder()
		handler.GetKpi(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
	})
}
