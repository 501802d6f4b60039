package repository

import (
	"context"
	"database/sql"
	"errors"

	"riskguard/internal/models"
)

// ErrNoCandles возвращается когда для символа нет ни одной свечи
var ErrNoCandles = errors.New("no candles for symbol")

// CandleRepository - работа с таблицей candles
//
// Свечи пишет фид (internal/feed) по закрытию минутного бара;
// ядро читает только последнюю цену закрытия.
type CandleRepository struct {
	db *sql.DB
}

// NewCandleRepository создает новый экземпляр репозитория
func NewCandleRepository(db *sql.DB) *CandleRepository {
	return &CandleRepository{db: db}
}

// Upsert сохраняет свечу; повторная запись того же бара
// (symbol, timeframe, timestamp) перезаписывает OHLCV
func (r *CandleRepository) Upsert(ctx context.Context, c *models.Candle) error {
	query := `
		INSERT INTO candles (symbol, timeframe, timestamp, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, timeframe, timestamp) DO UPDATE
		SET open = EXCLUDED.open,
		    high = EXCLUDED.high,
		    low = EXCLUDED.low,
		    close = EXCLUDED.close,
		    volume = EXCLUDED.volume`

	_, err := r.db.ExecContext(ctx, query,
		c.Symbol, c.Timeframe, c.Timestamp,
		c.Open, c.High, c.Low, c.Close, c.Volume,
	)
	return err
}

// LatestClose возвращает цену закрытия последней свечи символа
func (r *CandleRepository) LatestClose(ctx context.Context, symbol, timeframe string) (float64, error) {
	query := `
		SELECT close
		FROM candles
		WHERE symbol = $1 AND timeframe = $2
		ORDER BY timestamp DESC
		LIMIT 1`

	var close float64
	err := r.db.QueryRowContext(ctx, query, symbol, timeframe).Scan(&close)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNoCandles
		}
		return 0, err
	}

	return close, nil
}
