package handlers

import (
	"context"
	"net/http"

	"riskguard/internal/models"
	"riskguard/pkg/utils"
)

// KpiProvider собирает срез операционных KPI
type KpiProvider interface {
	Snapshot(ctx context.Context) (*models.OpsKpiSnapshot, error)
}

// KpiHandler отдаёт операционные KPI
type KpiHandler struct {
	kpi    KpiProvider
	logger *utils.Logger
}

// NewKpiHandler создает новый KpiHandler
func NewKpiHandler(kpi KpiProvider, logger *utils.Logger) *KpiHandler {
	return &KpiHandler{
		kpi:    kpi,
		logger: logger.WithComponent("api"),
	}
}

// GetKpi возвращает текущий срез KPI
// GET /api/v1/kpi
func (h *KpiHandler) GetKpi(w http.ResponseWriter, r *http.Request) {
	snap, err := h.kpi.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("failed to collect kpi snapshot", utils.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to collect kpi")
		return
	}

	respondJSON(w, http.StatusOK, snap)
}
