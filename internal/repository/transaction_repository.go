package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"riskguard/internal/models"
)

// TransactionRepository - работа с append-only журналом transactions
//
// У репозитория намеренно нет Update/Delete операций: журнал
// неизменяем после вставки. Хранилище дополнительно защищает таблицу
// триггером, но инвариант держится уже на уровне этого API.
// Корректировки записываются новыми строками.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository создает новый экземпляр репозитория
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Append добавляет строку в журнал и заполняет tx.ID
func (r *TransactionRepository) Append(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (account_id, related_order_id, transaction_type, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	tx.CreatedAt = time.Now().UTC()

	return r.db.QueryRowContext(
		ctx,
		query,
		tx.AccountID,
		tx.RelatedOrderID,
		tx.Type,
		tx.Amount,
		tx.CreatedAt,
	).Scan(&tx.ID)
}

// RealizedPnL возвращает сумму PnL-образующих транзакций аккаунта
// за интервал [from, to).
//
// Суммируются только типы из models.PnLBearingTxTypes: риск-действия
// (RISK_ACTION_*) не участвуют - их amount это объём актива, а не USD.
func (r *TransactionRepository) RealizedPnL(ctx context.Context, accountID int64, from, to time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE account_id = $1
		  AND transaction_type = ANY($2)
		  AND created_at >= $3
		  AND created_at < $4`

	var pnl float64
	err := r.db.QueryRowContext(ctx, query, accountID, pq.Array(models.PnLBearingTxTypes), from, to).Scan(&pnl)
	if err != nil {
		return 0, err
	}

	return pnl, nil
}

// CountByOrderID возвращает количество записей журнала для ордера
// (используется в тестах сверки и при ручной реконсиляции orphan ордеров)
func (r *TransactionRepository) CountByOrderID(ctx context.Context, orderID int64) (int, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE related_order_id = $1`

	var count int
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
