package repository

import (
	"errors"

	"github.com/lib/pq"
)

// errors.go - классификация ошибок Postgres
//
// Ядро интерпретирует нарушения constraint'ов хранилища как
// бизнес-исходы, а не как сбои:
// - unique_violation на idempotency_key = дубликат ордера (ожидаемо)
// - check_violation / RAISE в триггере = отказ по бизнес-правилу
// Всё остальное - неожиданный сбой персистентности.

// Коды ошибок Postgres
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgRaiseException  = "P0001"
)

// IsUniqueViolation возвращает true для нарушения unique constraint
func IsUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

// IsCheckViolation возвращает true для нарушения check constraint
func IsCheckViolation(err error) bool {
	return pgErrorCode(err) == pgCheckViolation
}

// IsConstraintRejection возвращает true для отказа по бизнес-правилу
// хранилища: check constraint или RAISE EXCEPTION из триггера
// (нормализация precision, min_notional).
func IsConstraintRejection(err error) bool {
	code := pgErrorCode(err)
	return code == pgCheckViolation || code == pgRaiseException
}

func pgErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
