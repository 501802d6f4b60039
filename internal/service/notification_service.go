package service

import (
	"context"
	"errors"

	"riskguard/internal/models"
)

// Ошибки сервиса уведомлений
var (
	ErrEmptyDedupeKey = errors.New("notification dedupe key is required")
)

// NotificationService ставит уведомления в outbox, подставляя
// значения по умолчанию.
//
// Вызывающий код (риск-ядро, guardrail, webhook handler) знает
// severity и содержимое, но не знает chat_id получателя - он
// приходит из конфигурации при сборке сервиса.
type NotificationService struct {
	repo          NotificationRepositoryInterface
	defaultChatID int64
}

// NewNotificationService создает новый экземпляр сервиса
func NewNotificationService(repo NotificationRepositoryInterface, defaultChatID int64) *NotificationService {
	return &NotificationService{
		repo:          repo,
		defaultChatID: defaultChatID,
	}
}

// Enqueue ставит уведомление в outbox.
// Повторная постановка с тем же dedupe_key - no-op.
func (s *NotificationService) Enqueue(ctx context.Context, notif *models.Notification) error {
	if notif.DedupeKey == "" {
		return ErrEmptyDedupeKey
	}
	if notif.ChatID == 0 {
		notif.ChatID = s.defaultChatID
	}
	if notif.Severity == "" {
		notif.Severity = models.SeverityInfo
	}

	return s.repo.Enqueue(ctx, notif)
}

// CountPending возвращает размер очереди недоставленных уведомлений
func (s *NotificationService) CountPending(ctx context.Context) (int, error) {
	return s.repo.CountByStatus(ctx, models.NotificationStatusPending)
}
