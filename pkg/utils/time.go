package utils

import (
	"time"
)

// time.go - утилиты для работы со временем
//
// Назначение:
// Границы временных окон для guardrail-проверки лимитов убытков
// и усечение времени для idempotency key.
//
// Функции:
// - GetDayStart: начало текущего дня (00:00:00 UTC)
// - GetWeekStart: начало текущей недели (понедельник 00:00:00 UTC)
// - FloorToMinute: усечение до целой минуты (окно дедупликации ордеров)
//
// Все расчёты ведутся в UTC: торговый день и неделя определяются
// по UTC независимо от локали сервера.

// GetDayStart возвращает начало текущего дня (00:00:00) в UTC
func GetDayStart() time.Time {
	return GetDayStartFrom(time.Now().UTC())
}

// GetDayStartFrom возвращает начало дня для указанного времени в UTC
//
// Пример:
//
//	// t: 2024-01-15 14:30:45 UTC
//	start := GetDayStartFrom(t)
//	// start: 2024-01-15 00:00:00 UTC
func GetDayStartFrom(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetWeekStart возвращает начало текущей недели (понедельник 00:00:00) в UTC
func GetWeekStart() time.Time {
	return GetWeekStartFrom(time.Now().UTC())
}

// GetWeekStartFrom возвращает начало недели для указанного времени.
// Неделя начинается с понедельника (ISO 8601).
//
// Пример:
//
//	// t: среда 2024-01-17 14:30:45 UTC
//	start := GetWeekStartFrom(t)
//	// start: понедельник 2024-01-15 00:00:00 UTC
func GetWeekStartFrom(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	// time.Sunday == 0, сдвигаем чтобы понедельник был началом
	if weekday == 0 {
		weekday = 7
	}
	dayStart := GetDayStartFrom(t)
	return dayStart.AddDate(0, 0, -(weekday - 1))
}

// FloorToMinute усекает время до целой минуты в UTC.
//
// Используется генератором idempotency key: одинаковые решения
// в пределах одной UTC-минуты дают один и тот же ключ.
func FloorToMinute(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}
