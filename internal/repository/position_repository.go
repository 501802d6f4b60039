package repository

import (
	"context"
	"database/sql"

	"riskguard/internal/models"
)

// PositionRepository - работа с таблицей positions
//
// Позиции принадлежат внешнему fill-процессингу: этот репозиторий
// предоставляет только чтение. Риск-ядро никогда не мутирует позицию
// напрямую - оно лишь размещает закрывающие ордера.
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository создает новый экземпляр репозитория
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// GetActive возвращает все активные позиции аккаунта (quantity != 0)
func (r *PositionRepository) GetActive(ctx context.Context, accountID int64) ([]*models.Position, error) {
	query := `
		SELECT p.id, p.account_id, p.exchange_instrument_id, ei.symbol,
		       p.quantity, p.average_entry_price, p.initial_stop_loss, p.updated_at
		FROM positions p
		JOIN exchange_instruments ei ON p.exchange_instrument_id = ei.id
		WHERE p.account_id = $1 AND p.quantity != 0`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []*models.Position
	for rows.Next() {
		pos := &models.Position{}
		err := rows.Scan(
			&pos.ID,
			&pos.AccountID,
			&pos.InstrumentID,
			&pos.Symbol,
			&pos.Quantity,
			&pos.AvgEntryPrice,
			&pos.InitialStopLoss,
			&pos.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		positions = append(positions, pos)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return positions, nil
}

// CountActive возвращает количество активных позиций (для KPI)
func (r *PositionRepository) CountActive(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM positions WHERE quantity != 0`

	var count int
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// GrossExposure возвращает суммарную стоимость открытых позиций
// по цене входа (для KPI)
func (r *PositionRepository) GrossExposure(ctx context.Context) (float64, error) {
	query := `
		SELECT COALESCE(SUM(ABS(quantity * average_entry_price)), 0)
		FROM positions
		WHERE quantity != 0`

	var exposure float64
	err := r.db.QueryRowContext(ctx, query).Scan(&exposure)
	if err != nil {
		return 0, err
	}

	return exposure, nil
}
