package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"riskguard/internal/models"
)

// Ошибки репозитория ордеров
var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository - работа с таблицей orders
//
// Create не интерпретирует ошибки хранилища: классификация
// (дубликат idempotency key, отказ триггера, неожиданный сбой)
// принадлежит протоколу размещения (internal/execution).
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository создает новый экземпляр репозитория
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create создает запись об ордере и заполняет order.ID.
//
// Уникальность idempotency_key среди активных статусов обеспечивает
// частичный unique index в хранилище; нарушение возвращается как
// pq ошибка 23505 (см. IsUniqueViolation).
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (account_id, exchange_instrument_id, idempotency_key, side, type, status, quantity, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	order.CreatedAt = time.Now().UTC()

	return r.db.QueryRowContext(
		ctx,
		query,
		order.AccountID,
		order.InstrumentID,
		order.IdempotencyKey,
		order.Side,
		order.Type,
		order.Status,
		order.Quantity,
		order.Price,
		order.CreatedAt,
	).Scan(&order.ID)
}

// GetByID возвращает ордер по ID
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `
		SELECT id, account_id, exchange_instrument_id, idempotency_key, side, type, status, quantity, price, created_at
		FROM orders
		WHERE id = $1`

	order := &models.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.AccountID,
		&order.InstrumentID,
		&order.IdempotencyKey,
		&order.Side,
		&order.Type,
		&order.Status,
		&order.Quantity,
		&order.Price,
		&order.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}

// Count возвращает общее количество ордеров
func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM orders`

	var count int
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// CountByStatus возвращает количество ордеров с определенным статусом
func (r *OrderRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	query := `SELECT COUNT(*) FROM orders WHERE status = $1`

	var count int
	err := r.db.QueryRowContext(ctx, query, status).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
