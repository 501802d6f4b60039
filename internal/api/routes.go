package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"riskguard/internal/api/handlers"
	"riskguard/internal/api/middleware"
	"riskguard/pkg/utils"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	Alerts    handlers.AlertStore
	Placer    handlers.OrderPlacer
	Config    handlers.ConfigService
	Notifs    handlers.PendingCounter
	Kpi       handlers.KpiProvider
	AccountID int64

	// bcrypt-хеш операторского токена; пустой = API закрыт
	AuthTokenHash string

	Logger *utils.Logger
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Структура маршрутов:
//
// /health  - liveness probe, без аутентификации
// /metrics - Prometheus метрики, без аутентификации
// /api/v1/
//
//	├── POST  /webhook - приём alert'ов TradingView
//	├── GET   /status  - состояние системы и рубильника торговли
//	├── PATCH /trading - включение/выключение торговли оператором
//	└── GET   /kpi     - операционные KPI
//
// Middleware: Recovery и Logging глобально, Auth только на /api/v1
func SetupRoutes(deps *Dependencies) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(deps.AuthTokenHash))

	if deps.Alerts != nil && deps.Placer != nil {
		webhookHandler := handlers.NewWebhookHandler(deps.Alerts, deps.Placer, deps.AccountID, deps.Logger)
		api.HandleFunc("/webhook", webhookHandler.HandleAlert).Methods("POST")
	}

	if deps.Config != nil {
		statusHandler := handlers.NewStatusHandler(deps.Config, deps.Notifs, deps.Logger)
		api.HandleFunc("/status", statusHandler.GetStatus).Methods("GET")
		api.HandleFunc("/trading", statusHandler.SetTrading).Methods("PATCH")
	}

	if deps.Kpi != nil {
		kpiHandler := handlers.NewKpiHandler(deps.Kpi, deps.Logger)
		api.HandleFunc("/kpi", kpiHandler.GetKpi).Methods("GET")
	}

	return router
}
