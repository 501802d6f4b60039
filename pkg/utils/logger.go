package utils

import (
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger.go - настройка структурированного логирования (zap)
//
// Назначение:
// Единая инициализация логгера для всех компонентов: риск-цикл,
// протокол размещения ордеров, воркер уведомлений, HTTP API.
//
// Возможности:
// - Форматы: json (production) и text (console)
// - Уровни: debug, info, warn, error, fatal
// - Вывод в stdout или файл
// - Доменные конструкторы полей (Symbol, PositionID, RMultiple, ...)
// - Глобальный логгер для мест, где DI неудобен (L(), Info(), ...)

// LogConfig - конфигурация логгера
type LogConfig struct {
	Level       string // debug, info, warn, error, fatal
	Format      string // json, text
	Output      string // путь к файлу; пусто = stdout
	Development bool   // режим разработки (caller, console-friendly)
}

// Logger оборачивает zap.Logger, добавляя sugar и доменные хелперы
type Logger struct {
	*zap.Logger
	sugar *zap.SugaredLogger
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

// InitLogger создаёт и настраивает логгер.
// Никогда не возвращает nil: при некорректном Output откатывается на stderr.
func InitLogger(cfg LogConfig) *Logger {
	level := parseLevel(cfg.Level)

	var encoderCfg zapcore.EncoderConfig
	if cfg.Development {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
	} else {
		encoderCfg = zap.NewProductionEncoderConfig()
		encoderCfg.TimeKey = "ts"
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	var encoder zapcore.Encoder
	if strings.EqualFold(cfg.Format, "text") {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	var sink zapcore.WriteSyncer
	if cfg.Output != "" {
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			// Fallback на stderr, чтобы не потерять логи при недоступном файле
			sink = zapcore.AddSync(os.Stderr)
		} else {
			sink = zapcore.AddSync(file)
		}
	} else {
		sink = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(encoder, sink, level)

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}

	zl := zap.New(core, opts...)
	return &Logger{
		Logger: zl,
		sugar:  zl.Sugar(),
	}
}

// parseLevel преобразует строковый уровень в zapcore.Level.
// Неизвестные значения дают info.
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sugar возвращает SugaredLogger для printf-style логирования
func (l *Logger) Sugar() *zap.SugaredLogger {
	return l.sugar
}

// With возвращает дочерний логгер с дополнительными полями
func (l *Logger) With(fields ...zap.Field) *Logger {
	child := l.Logger.With(fields...)
	return &Logger{Logger: child, sugar: child.Sugar()}
}

// ============================================================
// Доменные хелперы для дочерних логгеров
// ============================================================

// WithComponent возвращает логгер с полем component
func (l *Logger) WithComponent(name string) *Logger {
	return l.With(Component(name))
}

// WithSymbol возвращает логгер с полем symbol
func (l *Logger) WithSymbol(symbol string) *Logger {
	return l.With(Symbol(symbol))
}

// WithPositionID возвращает логгер с полем position_id
func (l *Logger) WithPositionID(id int64) *Logger {
	return l.With(PositionID(id))
}

// WithAccountID возвращает логгер с полем account_id
func (l *Logger) WithAccountID(id int64) *Logger {
	return l.With(AccountID(id))
}

// ============================================================
// Глобальный логгер
// ============================================================

// InitGlobalLogger инициализирует глобальный логгер
func InitGlobalLogger(cfg LogConfig) *Logger {
	logger := InitLogger(cfg)
	SetGlobalLogger(logger)
	return logger
}

// SetGlobalLogger устанавливает глобальный логгер
func SetGlobalLogger(logger *Logger) {
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
}

// GetGlobalLogger возвращает глобальный логгер.
// Если он не инициализирован, создаёт логгер по умолчанию (info, json).
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	if globalLogger != nil {
		defer globalMu.RUnlock()
		return globalLogger
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = InitLogger(LogConfig{})
	}
	return globalLogger
}

// L - короткий алиас для GetGlobalLogger
func L() *Logger {
	return GetGlobalLogger()
}

// Debug логирует через глобальный логгер
func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }

// Info логирует через глобальный логгер
func Info(msg string, fields ...zap.Field) { L().Info(msg, fields...) }

// Warn логирует через глобальный логгер
func Warn(msg string, fields ...zap.Field) { L().Warn(msg, fields...) }

// Error логирует через глобальный логгер
func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

// Fatal логирует через глобальный логгер и завершает процесс
func Fatal(msg string, fields ...zap.Field) { L().Fatal(msg, fields...) }

// Debugf - printf-style debug через глобальный логгер
func Debugf(template string, args ...interface{}) { L().sugar.Debugf(template, args...) }

// Infof - printf-style info через глобальный логгер
func Infof(template string, args ...interface{}) { L().sugar.Infof(template, args...) }

// Warnf - printf-style warn через глобальный логгер
func Warnf(template string, args ...interface{}) { L().sugar.Warnf(template, args...) }

// Errorf - printf-style error через глобальный логгер
func Errorf(template string, args ...interface{}) { L().sugar.Errorf(template, args...) }

// ============================================================
// Доменные конструкторы полей
// ============================================================

// Symbol - торговый символ
func Symbol(symbol string) zap.Field { return zap.String("symbol", symbol) }

// PositionID - идентификатор позиции
func PositionID(id int64) zap.Field { return zap.Int64("position_id", id) }

// AccountID - идентификатор аккаунта
func AccountID(id int64) zap.Field { return zap.Int64("account_id", id) }

// OrderID - идентификатор ордера
func OrderID(id int64) zap.Field { return zap.Int64("order_id", id) }

// IdemKey - idempotency key ордера
func IdemKey(key string) zap.Field { return zap.String("idempotency_key", key) }

// Price - цена
func Price(price float64) zap.Field { return zap.Float64("price", price) }

// Quantity - объём
func Quantity(qty float64) zap.Field { return zap.Float64("quantity", qty) }

// RMultiple - текущий R-multiple позиции
func RMultiple(r float64) zap.Field { return zap.Float64("r_multiple", r) }

// Rule - имя сработавшего риск-правила
func Rule(name string) zap.Field { return zap.String("rule", name) }

// PNL - прибыль/убыток в USD
func PNL(pnl float64) zap.Field { return zap.Float64("pnl", pnl) }

// Side - сторона сделки
func Side(side string) zap.Field { return zap.String("side", side) }

// Severity - важность уведомления
func Severity(severity string) zap.Field { return zap.String("severity", severity) }

// Latency - длительность операции в миллисекундах
func Latency(ms float64) zap.Field { return zap.Float64("latency_ms", ms) }

// RequestID - идентификатор HTTP запроса
func RequestID(id string) zap.Field { return zap.String("request_id", id) }

// Component - имя компонента
func Component(name string) zap.Field { return zap.String("component", name) }

// ============================================================
// Переэкспорт стандартных конструкторов zap
// ============================================================

// String - строковое поле
func String(key, value string) zap.Field { return zap.String(key, value) }

// Int - целочисленное поле
func Int(key string, value int) zap.Field { return zap.Int(key, value) }

// Int64 - поле int64
func Int64(key string, value int64) zap.Field { return zap.Int64(key, value) }

// Float64 - поле float64
func Float64(key string, value float64) zap.Field { return zap.Float64(key, value) }

// Bool - булево поле
func Bool(key string, value bool) zap.Field { return zap.Bool(key, value) }

// Duration - поле длительности
func Duration(key string, value time.Duration) zap.Field { return zap.Duration(key, value) }

// Err - поле ошибки
func Err(err error) zap.Field { return zap.Error(err) }

// Any - произвольное поле
func Any(key string, value interface{}) zap.Field { return zap.Any(key, value) }
