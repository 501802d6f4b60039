package notifier

import (
	"context"
	"time"

	"riskguard/internal/models"
	"riskguard/pkg/utils"
)

// ============================================================
// Воркер доставки notification outbox
// ============================================================

const (
	// DefaultInterval - период опроса outbox
	DefaultInterval = 10 * time.Second

	// DefaultBatchSize - максимум уведомлений за один проход
	DefaultBatchSize = 20
)

// Outbox - часть репозитория уведомлений, нужная воркеру
type Outbox interface {
	ProcessPending(ctx context.Context, limit int, send func(*models.Notification) error) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}

// Sender доставляет одно уведомление получателю
type Sender interface {
	Send(ctx context.Context, notif *models.Notification) error
}

// Worker периодически выбирает PENDING уведомления из outbox
// и отдаёт их в Sender. Учёт попыток и backoff повторов живут
// в репозитории: воркер только возит сообщения.
type Worker struct {
	outbox    Outbox
	sender    Sender
	interval  time.Duration
	batchSize int
	logger    *utils.Logger
}

// NewWorker создает новый экземпляр воркера
func NewWorker(outbox Outbox, sender Sender, interval time.Duration, batchSize int, logger *utils.Logger) *Worker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Worker{
		outbox:    outbox,
		sender:    sender,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger.WithComponent("notifier"),
	}
}

// Run запускает цикл доставки до отмены контекста
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("notification worker started",
		utils.Duration("interval", w.interval),
		utils.Int("batch_size", w.batchSize))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("notification worker stopped")
			return
		case <-ticker.C:
			w.ProcessOnce(ctx)
		}
	}
}

// ProcessOnce выполняет один проход доставки и возвращает
// количество отправленных уведомлений
func (w *Worker) ProcessOnce(ctx context.Context) int {
	sent, err := w.outbox.ProcessPending(ctx, w.batchSize, func(n *models.Notification) error {
		if err := w.sender.Send(ctx, n); err != nil {
			DeliveriesTotal.WithLabelValues("failed").Inc()
			w.logger.Warn("notification delivery failed",
				utils.Int64("notification_id", n.ID),
				utils.String("dedupe_key", n.DedupeKey),
				utils.Int("fail_count", n.FailCount),
				utils.Err(err))
			return err
		}
		DeliveriesTotal.WithLabelValues("sent").Inc()
		return nil
	})
	if err != nil {
		w.logger.Error("outbox processing failed", utils.Err(err))
		return 0
	}

	if sent > 0 {
		w.logger.Info("notifications delivered", utils.Int("count", sent))
	}

	if pending, err := w.outbox.CountByStatus(ctx, models.NotificationStatusPending); err == nil {
		PendingQueueSize.Set(float64(pending))
	}

	return sent
}
