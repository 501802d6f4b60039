package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"riskguard/internal/execution"
	"riskguard/internal/models"
	"riskguard/internal/repository"
	"riskguard/pkg/utils"
)

// входящий webhook не должен раздуваться
const maxWebhookBody = 64 * 1024

// AlertStore сохраняет входящие alert'ы для аудита и дедупликации
type AlertStore interface {
	Create(ctx context.Context, alert *models.InboundAlert) error
	UpdateStatus(ctx context.Context, id int64, status string, errText string) error
}

// OrderPlacer размещает ордер по решению стратегии.
// (0, nil) означает подавленное размещение: дубликат или отказ правил.
type OrderPlacer interface {
	Place(ctx context.Context, accountID int64, decision models.Decision) (int64, error)
}

// WebhookHandler принимает сигналы стратегий от TradingView
//
// Поток обработки:
// 1. Сырой payload сохраняется в inbound_alerts (аудит + дедупликация)
// 2. Alert транслируется в торговое решение
// 3. Решение уходит в протокол размещения ордеров
//
// Повторная доставка того же alert'а (по idempotency_key) - no-op с 200:
// TradingView повторяет webhook при таймауте, 4xx/5xx спровоцирует шторм.
type WebhookHandler struct {
	alerts    AlertStore
	placer    OrderPlacer
	accountID int64
	logger    *utils.Logger
}

// NewWebhookHandler создает новый WebhookHandler
func NewWebhookHandler(alerts AlertStore, placer OrderPlacer, accountID int64, logger *utils.Logger) *WebhookHandler {
	return &WebhookHandler{
		alerts:    alerts,
		placer:    placer,
		accountID: accountID,
		logger:    logger.WithComponent("webhook"),
	}
}

// HandleAlert обрабатывает входящий alert
// POST /api/v1/webhook
func (h *WebhookHandler) HandleAlert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var alert models.TradingViewAlert
	if err := json.Unmarshal(body, &alert); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := alert.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	inbound := &models.InboundAlert{
		Source:    "tradingview",
		DedupeKey: alert.IdempotencyKey,
		Payload:   body,
		Status:    models.AlertStatusReceived,
	}
	if err := h.alerts.Create(r.Context(), inbound); err != nil {
		if errors.Is(err, repository.ErrDuplicateAlert) {
			h.logger.Info("duplicate alert ignored",
				utils.IdemKey(alert.IdempotencyKey),
				utils.Symbol(alert.Symbol))
			respondJSON(w, http.StatusOK, map[string]string{"status": "duplicate"})
			return
		}
		h.logger.Error("failed to store inbound alert", utils.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to store alert")
		return
	}

	decision, err := execution.DecisionFromAlert(&alert)
	if err != nil {
		h.markAlert(r.Context(), inbound.ID, models.AlertStatusError, err.Error())
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	orderID, err := h.placer.Place(r.Context(), h.accountID, decision)
	if err != nil {
		h.markAlert(r.Context(), inbound.ID, models.AlertStatusError, err.Error())
		h.logger.Error("order placement failed",
			utils.Symbol(alert.Symbol),
			utils.Err(err))
		respondError(w, http.StatusInternalServerError, "order placement failed")
		return
	}

	h.markAlert(r.Context(), inbound.ID, models.AlertStatusParsed, "")

	if orderID == 0 {
		respondJSON(w, http.StatusOK, map[string]string{"status": "skipped"})
		return
	}

	h.logger.Info("order placed from alert",
		utils.Symbol(alert.Symbol),
		utils.OrderID(orderID),
		utils.IdemKey(alert.IdempotencyKey))
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":   "placed",
		"order_id": orderID,
	})
}

// markAlert обновляет статус alert'а, сбой только логируется:
// аудит не должен ломать ответ клиенту
func (h *WebhookHandler) markAlert(ctx context.Context, id int64, status, errText string) {
	if err := h.alerts.UpdateStatus(ctx, id, status, errText); err != nil {
		h.logger.Warn("failed to update alert status",
			utils.Int64("alert_id", id),
			utils.Err(err))
	}
}
