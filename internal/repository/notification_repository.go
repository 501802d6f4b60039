package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"riskguard/internal/models"
)

// Параметры доставки уведомлений
const (
	// MaxDeliveryAttempts - после этого количества неудач уведомление
	// переводится в FAILED и больше не retry'ится
	MaxDeliveryAttempts = 5

	// baseRetryBackoff - базовая задержка перед повторной доставкой;
	// растёт экспоненциально с fail_count
	baseRetryBackoff = time.Minute
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NotificationRepository - работа с таблицей notification_outbox
//
// Enqueue вызывается ядром (Action Executor, Guardrail) и идемпотентен
// по dedupe_key. Доставку выполняет воркер (internal/notifier) через
// ProcessPending: выборка с FOR UPDATE SKIP LOCKED позволяет нескольким
// инстансам воркера работать параллельно без двойной отправки.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository создает новый экземпляр репозитория
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Enqueue ставит уведомление в outbox.
//
// Конфликт по dedupe_key подавляется (ON CONFLICT DO NOTHING):
// повторная постановка того же события - no-op, не ошибка.
// notif.ID остаётся нулевым если запись схлопнулась в существующую.
func (r *NotificationRepository) Enqueue(ctx context.Context, notif *models.Notification) error {
	var metaJSON []byte
	if notif.Meta != nil {
		var err error
		metaJSON, err = json.Marshal(notif.Meta)
		if err != nil {
			return fmt.Errorf("marshal notification meta: %w", err)
		}
	}

	if notif.Status == "" {
		notif.Status = models.NotificationStatusPending
	}
	notif.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO notification_outbox (chat_id, severity, title, message, dedupe_key, status, fail_count, send_after, meta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9)
		ON CONFLICT (dedupe_key) DO NOTHING
		RETURNING id`

	err := r.db.QueryRowContext(
		ctx,
		query,
		notif.ChatID,
		notif.Severity,
		notif.Title,
		notif.Message,
		notif.DedupeKey,
		notif.Status,
		notif.SendAfter,
		metaJSON,
		notif.CreatedAt,
	).Scan(&notif.ID)

	if err != nil {
		if err == sql.ErrNoRows {
			// Дубликат по dedupe_key - запись уже существует
			return nil
		}
		return err
	}

	return nil
}

// ProcessPending выбирает партию PENDING уведомлений, готовых к отправке,
// и доставляет каждое через send.
//
// Вся партия обрабатывается в одной транзакции:
// - успешная отправка -> статус SENT
// - ошибка отправки -> fail_count++; при достижении MaxDeliveryAttempts
//   статус FAILED, иначе PENDING с экспоненциальным send_after
//
// FOR UPDATE SKIP LOCKED гарантирует что конкурирующий воркер не
// возьмёт те же строки.
//
// Возвращает количество успешно отправленных уведомлений.
func (r *NotificationRepository) ProcessPending(ctx context.Context, limit int, send func(*models.Notification) error) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		SELECT id, chat_id, severity, title, message, dedupe_key, fail_count
		FROM notification_outbox
		WHERE status = $1
		  AND (send_after IS NULL OR send_after <= NOW())
		ORDER BY created_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED`

	rows, err := tx.QueryContext(ctx, query, models.NotificationStatusPending, limit)
	if err != nil {
		return 0, err
	}

	var batch []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.ChatID, &n.Severity, &n.Title, &n.Message, &n.DedupeKey, &n.FailCount); err != nil {
			rows.Close()
			return 0, err
		}
		batch = append(batch, n)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	sent := 0
	for _, n := range batch {
		if sendErr := send(n); sendErr != nil {
			if err := r.markFailure(ctx, tx, n); err != nil {
				return sent, err
			}
			continue
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE notification_outbox SET status = $1, sent_at = NOW() WHERE id = $2`,
			models.NotificationStatusSent, n.ID,
		); err != nil {
			return sent, err
		}
		sent++
	}

	if err := tx.Commit(); err != nil {
		return sent, err
	}

	return sent, nil
}

// markFailure увеличивает fail_count и планирует повторную доставку
// либо переводит уведомление в FAILED
func (r *NotificationRepository) markFailure(ctx context.Context, tx *sql.Tx, n *models.Notification) error {
	n.FailCount++

	if n.FailCount >= MaxDeliveryAttempts {
		_, err := tx.ExecContext(ctx,
			`UPDATE notification_outbox SET status = $1, fail_count = $2 WHERE id = $3`,
			models.NotificationStatusFailed, n.FailCount, n.ID,
		)
		return err
	}

	// Экспоненциальный backoff: 1m, 2m, 4m, 8m ...
	backoff := baseRetryBackoff * (1 << uint(n.FailCount-1))
	sendAfter := time.Now().UTC().Add(backoff)

	_, err := tx.ExecContext(ctx,
		`UPDATE notification_outbox SET fail_count = $1, send_after = $2 WHERE id = $3`,
		n.FailCount, sendAfter, n.ID,
	)
	return err
}

// CountByStatus возвращает количество уведомлений в указанном статусе
func (r *NotificationRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	query := `SELECT COUNT(*) FROM notification_outbox WHERE status = $1`

	var count int
	err := r.db.QueryRowContext(ctx, query, status).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
