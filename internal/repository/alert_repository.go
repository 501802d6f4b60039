package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"riskguard/internal/models"
)

// ErrDuplicateAlert возвращается при повторном приёме алерта
// с тем же dedupe_key
var ErrDuplicateAlert = errors.New("duplicate inbound alert")

// AlertRepository - работа с таблицей inbound_alerts
//
// Каждый принятый webhook фиксируется до обработки: это аудиторский
// след и защита от повторной доставки со стороны TradingView.
type AlertRepository struct {
	db *sql.DB
}

// NewAlertRepository создает новый экземпляр репозитория
func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create сохраняет входящий алерт.
// Конфликт по dedupe_key транслируется в ErrDuplicateAlert.
func (r *AlertRepository) Create(ctx context.Context, alert *models.InboundAlert) error {
	alert.CreatedAt = time.Now().UTC()
	if alert.Status == "" {
		alert.Status = models.AlertStatusReceived
	}

	query := `
		INSERT INTO inbound_alerts (source, dedupe_key, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		alert.Source, alert.DedupeKey, alert.Payload, alert.Status, alert.CreatedAt,
	).Scan(&alert.ID)

	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateAlert
		}
		return err
	}

	return nil
}

// UpdateStatus отмечает результат обработки алерта
func (r *AlertRepository) UpdateStatus(ctx context.Context, id int64, status string, errText string) error {
	query := `
		UPDATE inbound_alerts
		SET status = $1, error = $2
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, errText, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
