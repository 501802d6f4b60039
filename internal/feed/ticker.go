package feed

import (
	"context"
	"strconv"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"riskguard/internal/models"
	"riskguard/pkg/utils"
)

// ticker.go - поток тикеров Bybit v5 (public linear)
//
// Поток обновляет кеш последних цен (для риск-ядра и проверки
// min_notional) и собирает минутные свечи, которые по закрытию
// бара пишутся в хранилище.

// DefaultWSURL - публичный стрим Bybit v5 для linear перпетуалов
const DefaultWSURL = "wss://stream.bybit.com/v5/public/linear"

// priceMaxAge - окно свежести кеша: тик старше считается устаревшим
// и LastPrice его не отдаёт
const priceMaxAge = 30 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// tickerMessage - push-сообщение канала tickers.*
type tickerMessage struct {
	Topic string `json:"topic"`
	Data  struct {
		Symbol    string `json:"symbol"`
		LastPrice string `json:"lastPrice"`
	} `json:"data"`
}

type tick struct {
	price float64
	at    time.Time
}

// TickerStream - подписка на тикеры и кеш последних цен
type TickerStream struct {
	ws *wsManager

	// exchange symbol (BTCUSDT) -> канонический (BTC/USDT)
	symbols map[string]string

	prices   map[string]tick // ключ - канонический символ
	pricesMu sync.RWMutex

	builders map[string]*candleBuilder
	sink     CandleSink

	// источник времени, в тестах подменяется
	now func() time.Time

	logger *utils.Logger
}

// NewTickerStream создает поток тикеров для набора инструментов.
// sink может быть nil - тогда свечи не собираются.
func NewTickerStream(wsURL string, instruments []*models.Instrument, sink CandleSink, logger *utils.Logger) *TickerStream {
	if wsURL == "" {
		wsURL = DefaultWSURL
	}

	s := &TickerStream{
		symbols:  make(map[string]string, len(instruments)),
		prices:   make(map[string]tick),
		builders: make(map[string]*candleBuilder),
		sink:     sink,
		now:      time.Now,
		logger:   logger.WithComponent("ticker_stream"),
	}
	for _, inst := range instruments {
		s.symbols[inst.ExchangeSymbol] = inst.Symbol
		if sink != nil {
			s.builders[inst.Symbol] = newCandleBuilder(inst.Symbol)
		}
	}

	s.ws = newWSManager(wsURL, DefaultWSConfig(), s.handleMessage, logger)

	args := make([]string, 0, len(instruments))
	for _, inst := range instruments {
		args = append(args, "tickers."+inst.ExchangeSymbol)
	}
	if len(args) > 0 {
		s.ws.addSubscription(map[string]interface{}{
			"op":   "subscribe",
			"args": args,
		})
	}

	return s
}

// Start подключает поток и блокируется до отмены контекста
func (s *TickerStream) Start(ctx context.Context) error {
	if err := s.ws.connect(); err != nil {
		return err
	}

	<-ctx.Done()
	s.ws.close()
	return nil
}

// LastPrice возвращает последнюю цену канонического символа.
// Второе значение false если цены нет или она устарела.
func (s *TickerStream) LastPrice(symbol string) (float64, bool) {
	s.pricesMu.RLock()
	t, ok := s.prices[symbol]
	s.pricesMu.RUnlock()

	if !ok || s.now().Sub(t.at) > priceMaxAge {
		return 0, false
	}
	return t.price, true
}

// handleMessage обрабатывает push от Bybit
func (s *TickerStream) handleMessage(raw []byte) {
	var msg tickerMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	if msg.Data.Symbol == "" || msg.Data.LastPrice == "" {
		// служебные сообщения (подтверждения подписки, pong)
		return
	}

	canonical, ok := s.symbols[msg.Data.Symbol]
	if !ok {
		return
	}

	price, err := strconv.ParseFloat(msg.Data.LastPrice, 64)
	if err != nil || price <= 0 {
		return
	}

	now := s.now().UTC()

	s.pricesMu.Lock()
	s.prices[canonical] = tick{price: price, at: now}
	s.pricesMu.Unlock()

	if builder, ok := s.builders[canonical]; ok {
		if closed := builder.apply(price, now); closed != nil {
			s.flushCandle(closed)
		}
	}
}

func (s *TickerStream) flushCandle(c *models.Candle) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.sink.Upsert(ctx, c); err != nil {
		s.logger.Warn("candle upsert failed",
			utils.Symbol(c.Symbol),
			utils.Err(err),
		)
	}
}

// candleBuilder агрегирует тики в минутные свечи.
// Доступ сериализован callback'ом wsManager, mutex не нужен.
type candleBuilder struct {
	symbol  string
	current *models.Candle
}

func newCandleBuilder(symbol string) *candleBuilder {
	return &candleBuilder{symbol: symbol}
}

// apply учитывает тик и возвращает закрытую свечу при смене минуты
func (b *candleBuilder) apply(price float64, at time.Time) *models.Candle {
	minute := at.Truncate(time.Minute)

	if b.current == nil {
		b.current = b.newCandle(price, minute)
		return nil
	}

	if minute.After(b.current.Timestamp) {
		closed := b.current
		b.current = b.newCandle(price, minute)
		return closed
	}

	c := b.current
	if price > c.High {
		c.High = price
	}
	if price < c.Low {
		c.Low = price
	}
	c.Close = price
	c.Volume++ // объёма в тикере нет, считаем тики
	return nil
}

func (b *candleBuilder) newCandle(price float64, minute time.Time) *models.Candle {
	return &models.Candle{
		Symbol:    b.symbol,
		Timeframe: "1m",
		Timestamp: minute,
		Open:      price,
		High:      price,
		Low:       price,
		Close:     price,
		Volume:    1,
	}
}
