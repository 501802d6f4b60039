package execution

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"riskguard/internal/models"
	"riskguard/pkg/utils"
)

// idempotency.go - генерация idempotency key ордера
//
// Ключ - SHA-256 от детерминированного представления решения,
// с временем, усечённым до UTC-минуты. Два одинаковых решения
// в пределах одной минуты дают один ключ и схлопываются частичным
// unique-индексом хранилища в один ордер. На границе минуты ключ
// меняется - повторное решение пройдёт как новый ордер; окно
// дедупликации это минута, не скользящий интервал.

// KeyGenerator генерирует idempotency key для решений
type KeyGenerator struct {
	// источник времени, в тестах подменяется
	now func() time.Time
}

// NewKeyGenerator создает новый генератор
func NewKeyGenerator() *KeyGenerator {
	return &KeyGenerator{now: time.Now}
}

// Key возвращает idempotency key для решения аккаунта.
//
// В ключ входят: аккаунт, символ, сторона, SL, TP и UTC-минута.
// Объём намеренно не входит: решение "закрыть BTC сейчас" - одно,
// даже если объём чуть отличается из-за округления.
func (g *KeyGenerator) Key(accountID int64, intent models.OrderIntent) string {
	minute := utils.FloorToMinute(g.now())

	payload := fmt.Sprintf("%d-%s-%s-%v-%v-%s",
		accountID,
		intent.Symbol,
		intent.Side,
		intent.StopLoss,
		intent.TakeProfit,
		minute.Format("2006-01-02 15:04"),
	)

	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
