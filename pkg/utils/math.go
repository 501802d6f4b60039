package utils

import (
	"math"
)

// math.go - математические утилиты для размещения ордеров
//
// Назначение:
// Нормализация объёма ордера под лимиты инструмента. Протокол
// размещения дублирует store-level нормализацию в коде, чтобы
// инварианты (шаг объёма, минимальная стоимость) держались и
// против хранилища без программируемых constraint'ов.
//
// Все функции являются чистыми (pure functions) без побочных эффектов.

// RoundToLotSize округляет значение ВНИЗ до ближайшего кратного lotSize.
//
// Округление вниз гарантирует, что нормализованный объём не превысит
// запрошенный.
//
// Примеры:
//   - RoundToLotSize(0.123456, 0.001) = 0.123
//   - RoundToLotSize(1.999, 0.01) = 1.99
//   - RoundToLotSize(100.5, 1.0) = 100.0
//
// Если lotSize <= 0, возвращает исходное значение.
func RoundToLotSize(value, lotSize float64) float64 {
	if lotSize <= 0 {
		return value
	}
	return math.Floor(value/lotSize) * lotSize
}

// RoundToLotSizeUp округляет значение ВВЕРХ до ближайшего кратного lotSize.
//
// Используется когда нужно гарантировать минимальный объём.
func RoundToLotSizeUp(value, lotSize float64) float64 {
	if lotSize <= 0 {
		return value
	}
	return math.Ceil(value/lotSize) * lotSize
}

// Notional возвращает стоимость ордера в котируемой валюте.
// Объём берётся по модулю: знак объёма кодирует направление, не стоимость.
func Notional(quantity, price float64) float64 {
	return math.Abs(quantity) * price
}
