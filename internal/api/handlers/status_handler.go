package handlers

import (
	"context"
	"net/http"

	"riskguard/internal/models"
	"riskguard/pkg/utils"
)

// ConfigService читает и переключает глобальную конфигурацию торговли
type ConfigService interface {
	Get(ctx context.Context) (*models.SystemConfiguration, error)
	SetTradingEnabled(ctx context.Context, enabled bool) error
}

// PendingCounter возвращает размер очереди недоставленных уведомлений
type PendingCounter interface {
	CountPending(ctx context.Context) (int, error)
}

// StatusHandler отдаёт состояние системы и операторский рубильник торговли
type StatusHandler struct {
	config ConfigService
	notifs PendingCounter
	logger *utils.Logger
}

// NewStatusHandler создает новый StatusHandler
func NewStatusHandler(config ConfigService, notifs PendingCounter, logger *utils.Logger) *StatusHandler {
	return &StatusHandler{
		config: config,
		notifs: notifs,
		logger: logger.WithComponent("api"),
	}
}

// statusResponse - ответ GET /api/v1/status
type statusResponse struct {
	IsTradingEnabled     bool    `json:"is_trading_enabled"`
	DailyLossLimitUSD    float64 `json:"daily_loss_limit_usd"`
	WeeklyLossLimitUSD   float64 `json:"weekly_loss_limit_usd"`
	PendingNotifications int     `json:"pending_notifications"`
}

// GetStatus возвращает текущее состояние системы
// GET /api/v1/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.config.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load system configuration", utils.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to load configuration")
		return
	}

	pending := -1
	if h.notifs != nil {
		if n, err := h.notifs.CountPending(r.Context()); err == nil {
			pending = n
		} else {
			// не роняем весь статус из-за счётчика очереди
			h.logger.Warn("failed to count pending notifications", utils.Err(err))
		}
	}

	respondJSON(w, http.StatusOK, statusResponse{
		IsTradingEnabled:     cfg.IsTradingEnabled,
		DailyLossLimitUSD:    cfg.DailyLossLimitUSD,
		WeeklyLossLimitUSD:   cfg.WeeklyLossLimitUSD,
		PendingNotifications: pending,
	})
}

// tradingRequest - тело PATCH /api/v1/trading
type tradingRequest struct {
	Enabled *bool `json:"enabled"`
}

// SetTrading переключает торговлю.
// PATCH /api/v1/trading
//
// Единственный способ снова включить торговлю после срабатывания
// guardrail'а: автоматического восстановления нет.
func (h *StatusHandler) SetTrading(w http.ResponseWriter, r *http.Request) {
	var req tradingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Enabled == nil {
		respondError(w, http.StatusBadRequest, "enabled field is required")
		return
	}

	if err := h.config.SetTradingEnabled(r.Context(), *req.Enabled); err != nil {
		h.logger.Error("failed to switch trading", utils.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to switch trading")
		return
	}

	h.logger.Info("trading switched by operator", utils.Bool("enabled", *req.Enabled))
	respondJSON(w, http.StatusOK, map[string]bool{"is_trading_enabled": *req.Enabled})
}
