package repository

import (
	"context"
	"database/sql"
	"errors"

	"riskguard/internal/models"
)

// ErrConfigNotFound возвращается если singleton-строка конфигурации
// отсутствует и не может быть создана
var ErrConfigNotFound = errors.New("system configuration not found")

// SystemConfigRepository - работа с таблицей system_configuration
//
// Таблица хранит ровно одну строку (id = 1) с глобальным рубильником
// торговли и лимитами убытков. Кеширование поверх репозитория делает
// сервисный слой (internal/service).
type SystemConfigRepository struct {
	db *sql.DB
}

// NewSystemConfigRepository создает новый экземпляр репозитория
func NewSystemConfigRepository(db *sql.DB) *SystemConfigRepository {
	return &SystemConfigRepository{db: db}
}

// Get возвращает текущую конфигурацию системы.
// Если строка отсутствует - создает запись со значениями по умолчанию.
func (r *SystemConfigRepository) Get(ctx context.Context) (*models.SystemConfiguration, error) {
	cfg, err := r.get(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if err := r.createDefault(ctx); err != nil {
		return nil, err
	}

	cfg, err = r.get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	return cfg, nil
}

func (r *SystemConfigRepository) get(ctx context.Context) (*models.SystemConfiguration, error) {
	query := `
		SELECT id, is_trading_enabled, daily_loss_limit_usd, weekly_loss_limit_usd, updated_at
		FROM system_configuration
		WHERE id = 1`

	cfg := &models.SystemConfiguration{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&cfg.ID,
		&cfg.IsTradingEnabled,
		&cfg.DailyLossLimitUSD,
		&cfg.WeeklyLossLimitUSD,
		&cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// createDefault создает строку конфигурации по умолчанию:
// торговля включена, лимиты 500/1500 USD
func (r *SystemConfigRepository) createDefault(ctx context.Context) error {
	query := `
		INSERT INTO system_configuration (id, is_trading_enabled, daily_loss_limit_usd, weekly_loss_limit_usd, updated_at)
		VALUES (1, TRUE, 500, 1500, NOW())
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query)
	return err
}

// SetTradingEnabled переключает глобальный рубильник торговли
func (r *SystemConfigRepository) SetTradingEnabled(ctx context.Context, enabled bool) error {
	query := `
		UPDATE system_configuration
		SET is_trading_enabled = $1, updated_at = NOW()
		WHERE id = 1`

	result, err := r.db.ExecContext(ctx, query, enabled)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrConfigNotFound
	}

	return nil
}
