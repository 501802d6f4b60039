package feed

import (
	"context"
	"errors"

	"riskguard/internal/models"
)

// Пакет feed отвечает за рыночные данные: WebSocket поток тикеров
// Bybit с автоматическим переподключением, кеш последних цен и
// агрегация минутных свечей в хранилище.
//
// Потребитель цен - риск-ядро: ему нужна последняя цена символа,
// не поток. Устаревшая цена хуже отсутствующей, поэтому кеш
// отвечает только в пределах окна свежести, дальше - фоллбек на
// последнюю закрытую свечу из хранилища.

// ErrPriceUnavailable возвращается когда ни кеш, ни хранилище
// не знают цену символа
var ErrPriceUnavailable = errors.New("price unavailable")

// CandleSink принимает закрытые минутные свечи
type CandleSink interface {
	Upsert(ctx context.Context, c *models.Candle) error
}

// CandleReader отдаёт цену закрытия последней свечи
type CandleReader interface {
	LatestClose(ctx context.Context, symbol, timeframe string) (float64, error)
}

// PriceFeed - источник последних цен: живой кеш тикеров с фоллбеком
// на свечи из хранилища
type PriceFeed struct {
	stream  *TickerStream
	candles CandleReader
}

// NewPriceFeed создает новый источник цен
func NewPriceFeed(stream *TickerStream, candles CandleReader) *PriceFeed {
	return &PriceFeed{stream: stream, candles: candles}
}

// LatestPrice возвращает последнюю известную цену символа.
//
// Порядок: свежий тик из WebSocket кеша, иначе close последней
// минутной свечи, иначе ErrPriceUnavailable.
func (f *PriceFeed) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	if f.stream != nil {
		if price, ok := f.stream.LastPrice(symbol); ok {
			return price, nil
		}
	}

	if f.candles != nil {
		price, err := f.candles.LatestClose(ctx, symbol, "1m")
		if err == nil {
			return price, nil
		}
	}

	return 0, ErrPriceUnavailable
}
