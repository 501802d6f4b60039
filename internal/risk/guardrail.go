package risk

import (
	"context"
	"fmt"
	"time"

	"riskguard/internal/models"
	"riskguard/pkg/utils"
)

// guardrail.go - PnL guardrail и kill switch
//
// Перед каждым риск-циклом проверяются дневной и недельный лимиты
// убытков. Пробой лимита выключает торговлю глобально
// (system_configuration.is_trading_enabled = false) и ставит
// CRITICAL уведомление. Обратное включение - только оператором.
//
// Дневное окно проверяется раньше недельного: при одновременном
// пробое в уведомлении фигурирует дневной лимит.

// Guardrail - проверка лимитов убытков перед риск-циклом
type Guardrail struct {
	config   ConfigSource
	pnl      PnLSource
	notifier Notifier

	accountID int64

	// источник времени, в тестах подменяется
	now func() time.Time

	logger *utils.Logger
}

// NewGuardrail создает новый экземпляр guardrail
func NewGuardrail(config ConfigSource, pnl PnLSource, notifier Notifier, accountID int64, logger *utils.Logger) *Guardrail {
	return &Guardrail{
		config:    config,
		pnl:       pnl,
		notifier:  notifier,
		accountID: accountID,
		now:       time.Now,
		logger:    logger.WithComponent("guardrail"),
	}
}

// Check возвращает true если торговля разрешена.
//
// Fail-closed: при недоступности конфигурации или журнала торговля
// на этот цикл запрещается без выключения глобального рубильника.
func (g *Guardrail) Check(ctx context.Context) bool {
	cfg, err := g.config.Get(ctx)
	if err != nil {
		g.logger.Error("failed to read system configuration, halting cycle", utils.Err(err))
		return false
	}

	if !cfg.IsTradingEnabled {
		TradingEnabled.Set(0)
		return false
	}

	now := g.now().UTC()

	dailyPnL, err := g.pnl.RealizedPnL(ctx, g.accountID, utils.GetDayStartFrom(now), now)
	if err != nil {
		g.logger.Error("failed to compute daily pnl, halting cycle", utils.Err(err))
		return false
	}
	RealizedPnL.WithLabelValues("daily").Set(dailyPnL)

	if dailyPnL < -cfg.DailyLossLimitUSD {
		g.breach(ctx, "daily", dailyPnL, cfg.DailyLossLimitUSD, now)
		return false
	}

	weeklyPnL, err := g.pnl.RealizedPnL(ctx, g.accountID, utils.GetWeekStartFrom(now), now)
	if err != nil {
		g.logger.Error("failed to compute weekly pnl, halting cycle", utils.Err(err))
		return false
	}
	RealizedPnL.WithLabelValues("weekly").Set(weeklyPnL)

	if weeklyPnL < -cfg.WeeklyLossLimitUSD {
		g.breach(ctx, "weekly", weeklyPnL, cfg.WeeklyLossLimitUSD, now)
		return false
	}

	TradingEnabled.Set(1)
	return true
}

// breach выключает торговлю и эскалирует пробой лимита
func (g *Guardrail) breach(ctx context.Context, window string, pnl, limit float64, now time.Time) {
	g.logger.Error("pnl loss limit breached, disabling trading",
		utils.String("window", window),
		utils.PNL(pnl),
		utils.Float64("limit_usd", limit),
	)
	GuardrailBreaches.WithLabelValues(window).Inc()
	TradingEnabled.Set(0)

	if err := g.config.DisableTrading(ctx); err != nil {
		// Рубильник не переключился - цикл всё равно остановлен,
		// повторная попытка на следующем цикле
		g.logger.Error("failed to disable trading after breach", utils.Err(err))
	}

	notif := &models.Notification{
		Severity: models.SeverityCritical,
		Title:    "Trading halted",
		Message: fmt.Sprintf("%s realized PnL %.2f USD breached loss limit %.2f USD, trading disabled",
			window, pnl, limit),
		// Один CRITICAL алерт на окно в календарный день
		DedupeKey: fmt.Sprintf("guardrail-%s-%s", window, now.Format("2006-01-02")),
		Meta: map[string]interface{}{
			"window":    window,
			"pnl_usd":   pnl,
			"limit_usd": limit,
		},
	}
	if err := g.notifier.Enqueue(ctx, notif); err != nil {
		g.logger.Error("failed to enqueue breach notification", utils.Err(err))
	}
}
