package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"riskguard/internal/models"
)

// ============================================================
// Моки outbox и sender
// ============================================================

type fakeOutbox struct {
	batch   []*models.Notification
	limit   int
	err     error
	pending int
}

func (f *fakeOutbox) ProcessPending(ctx context.Context, limit int, send func(*models.Notification) error) (int, error) {
	f.limit = limit
	if f.err != nil {
		return 0, f.err
	}

	sent := 0
	for _, n := range f.batch {
		if err := send(n); err == nil {
			sent++
		}
	}
	return sent, nil
}

func (f *fakeOutbox) CountByStatus(ctx context.Context, status string) (int, error) {
	return f.pending, nil
}

type fakeSender struct {
	sent    []string
	failFor map[string]error
}

func (f *fakeSender) Send(ctx context.Context, notif *models.Notification) error {
	if err, ok := f.failFor[notif.DedupeKey]; ok {
		return err
	}
	f.sent = append(f.sent, notif.DedupeKey)
	return nil
}

func notif(id int64, key string) *models.Notification {
	return &models.Notification{
		ID:        id,
		ChatID:    1,
		Severity:  models.SeverityInfo,
		Title:     "t",
		Message:   "m",
		DedupeKey: key,
	}
}

// ============================================================
// Worker
// ============================================================

func TestWorker_ProcessOnce_DeliversBatch(t *testing.T) {
	outbox := &fakeOutbox{
		batch: []*models.Notification{notif(1, "a"), notif(2, "b")},
	}
	sender := &fakeSender{}
	w := NewWorker(outbox, sender, time.Second, 7, newTestLogger())

	sent := w.ProcessOnce(context.Background())

	if sent != 2 {
		t.Errorf("sent = %d, want 2", sent)
	}
	if outbox.limit != 7 {
		t.Errorf("batch size propagated as %d, want 7", outbox.limit)
	}
	if len(sender.sent) != 2 || sender.sent[0] != "a" || sender.sent[1] != "b" {
		t.Errorf("unexpected delivery order: %v", sender.sent)
	}
}

func TestWorker_ProcessOnce_PartialFailure(t *testing.T) {
	outbox := &fakeOutbox{
		batch: []*models.Notification{notif(1, "a"), notif(2, "b"), notif(3, "c")},
	}
	sender := &fakeSender{
		failFor: map[string]error{"b": errors.New("telegram API status 502")},
	}
	w := NewWorker(outbox, sender, time.Second, 10, newTestLogger())

	sent := w.ProcessOnce(context.Background())

	if sent != 2 {
		t.Errorf("sent = %d, want 2", sent)
	}
	if len(sender.sent) != 2 {
		t.Errorf("delivered = %v, want a and c", sender.sent)
	}
}

func TestWorker_ProcessOnce_OutboxError(t *testing.T) {
	outbox := &fakeOutbox{err: errors.New("connection refused")}
	w := NewWorker(outbox, &fakeSender{}, time.Second, 10, newTestLogger())

	if sent := w.ProcessOnce(context.Background()); sent != 0 {
		t.Errorf("sent = %d, want 0 on outbox error", sent)
	}
}

func TestWorker_Defaults(t *testing.T) {
	w := NewWorker(&fakeOutbox{}, &fakeSender{}, 0, 0, newTestLogger())

	if w.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", w.interval, DefaultInterval)
	}
	if w.batchSize != DefaultBatchSize {
		t.Errorf("batchSize = %d, want %d", w.batchSize, DefaultBatchSize)
	}
}

func TestWorker_Run_StopsOnCancel(t *testing.T) {
	outbox := &fakeOutbox{batch: []*models.Notification{notif(1, "a")}}
	w := NewWorker(outbox, &fakeSender{}, 10*time.Millisecond, 5, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancel")
	}
}
