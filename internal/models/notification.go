package models

import "time"

// Notification - запись notification outbox.
//
// Создаётся ядром (Action Executor, Guardrail) со статусом PENDING,
// доставляется отдельным воркером (internal/notifier). DedupeKey
// уникален в хранилище: повторная постановка того же события
// схлопывается в одну запись.
type Notification struct {
	ID        int64                  `json:"id" db:"id"`
	ChatID    int64                  `json:"chat_id" db:"chat_id"`
	Severity  string                 `json:"severity" db:"severity"` // INFO, WARN, ERROR, CRITICAL
	Title     string                 `json:"title" db:"title"`
	Message   string                 `json:"message" db:"message"`
	DedupeKey string                 `json:"dedupe_key" db:"dedupe_key"`
	Status    string                 `json:"status" db:"status"` // PENDING, SENT, FAILED
	FailCount int                    `json:"fail_count" db:"fail_count"`
	SendAfter *time.Time             `json:"send_after,omitempty" db:"send_after"`
	Meta      map[string]interface{} `json:"meta,omitempty" db:"meta"` // JSON в БД
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
}

// Уровни важности
const (
	SeverityInfo     = "INFO"
	SeverityWarn     = "WARN"
	SeverityError    = "ERROR"
	SeverityCritical = "CRITICAL"
)

// Статусы доставки
const (
	NotificationStatusPending = "PENDING"
	NotificationStatusSent    = "SENT"
	NotificationStatusFailed  = "FAILED"
)
