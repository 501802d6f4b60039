package repository

import (
	"context"
	"database/sql"
	"errors"

	"riskguard/internal/models"
)

// Ошибки репозитория инструментов
var (
	ErrInstrumentNotFound = errors.New("instrument not found")
)

// InstrumentRepository - работа с таблицей exchange_instruments
type InstrumentRepository struct {
	db *sql.DB
}

// NewInstrumentRepository создает новый экземпляр репозитория
func NewInstrumentRepository(db *sql.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

// ResolveBySymbol возвращает инструмент по каноническому символу.
// Возвращает ErrInstrumentNotFound если символ не торгуется.
func (r *InstrumentRepository) ResolveBySymbol(ctx context.Context, symbol string) (*models.Instrument, error) {
	query := `
		SELECT id, symbol, exchange_symbol, lot_size, min_notional
		FROM exchange_instruments
		WHERE symbol = $1`

	inst := &models.Instrument{}
	err := r.db.QueryRowContext(ctx, query, symbol).Scan(
		&inst.ID,
		&inst.Symbol,
		&inst.ExchangeSymbol,
		&inst.LotSize,
		&inst.MinNotional,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInstrumentNotFound
		}
		return nil, err
	}

	return inst, nil
}

// GetAll возвращает все торгуемые инструменты (для подписки фида котировок)
func (r *InstrumentRepository) GetAll(ctx context.Context) ([]*models.Instrument, error) {
	query := `
		SELECT id, symbol, exchange_symbol, lot_size, min_notional
		FROM exchange_instruments
		ORDER BY symbol`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instruments []*models.Instrument
	for rows.Next() {
		inst := &models.Instrument{}
		err := rows.Scan(
			&inst.ID,
			&inst.Symbol,
			&inst.ExchangeSymbol,
			&inst.LotSize,
			&inst.MinNotional,
		)
		if err != nil {
			return nil, err
		}
		instruments = append(instruments, inst)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return instruments, nil
}
