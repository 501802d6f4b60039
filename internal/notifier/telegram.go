package notifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"riskguard/internal/models"
	"riskguard/pkg/ratelimit"
	"riskguard/pkg/retry"
	"riskguard/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	telegramAPIBase = "https://api.telegram.org"

	// Telegram: ~1 msg/sec в один чат, даём небольшой burst
	telegramRate  = 1.0
	telegramBurst = 3.0

	httpTimeout = 10 * time.Second
)

// TelegramSender отправляет уведомления через Telegram Bot API.
//
// Сетевые сбои и 5xx retry'ятся с backoff'ом, 4xx считаются
// permanent (битый токен или chat_id) и сразу отдаются outbox'у,
// который сам решает судьбу записи по fail_count.
type TelegramSender struct {
	token   string
	baseURL string
	client  *http.Client
	limiter *ratelimit.RateLimiter
	logger  *utils.Logger
}

// NewTelegramSender создает новый экземпляр отправителя
func NewTelegramSender(token string, logger *utils.Logger) *TelegramSender {
	return &TelegramSender{
		token:   token,
		baseURL: telegramAPIBase,
		client:  &http.Client{Timeout: httpTimeout},
		limiter: ratelimit.NewRateLimiter(telegramRate, telegramBurst),
		logger:  logger.WithComponent("telegram"),
	}
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send доставляет одно уведомление в Telegram.
// Блокирует на rate limiter'е; ошибка = недоставлено.
func (s *TelegramSender) Send(ctx context.Context, notif *models.Notification) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	cfg := retry.DefaultConfig()
	cfg.MaxRetries = 3
	cfg.RetryIf = retry.RetryIfNotContext
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		s.logger.Warn("telegram send retry",
			utils.Int("attempt", attempt),
			utils.Duration("delay", delay),
			utils.Err(err))
	}

	return retry.Do(ctx, func() error {
		return s.sendOnce(ctx, notif)
	}, cfg)
}

func (s *TelegramSender) sendOnce(ctx context.Context, notif *models.Notification) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    notif.ChatID,
		Text:      FormatMessage(notif),
		ParseMode: "Markdown",
	})
	if err != nil {
		return retry.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		var apiResp sendMessageResponse
		_ = json.Unmarshal(respBody, &apiResp)

		err := fmt.Errorf("telegram API status %d: %s", resp.StatusCode, apiResp.Description)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return retry.Permanent(err)
		}
		return err
	}

	return nil
}

// эмодзи по severity, как в алертах бота
var severityEmoji = map[string]string{
	models.SeverityInfo:     "ℹ️",
	models.SeverityWarn:     "⚠️",
	models.SeverityError:    "🚨",
	models.SeverityCritical: "🛑",
}

// FormatMessage собирает текст сообщения из уведомления
func FormatMessage(notif *models.Notification) string {
	emoji, ok := severityEmoji[notif.Severity]
	if !ok {
		emoji = severityEmoji[models.SeverityInfo]
	}
	return fmt.Sprintf("%s *%s*\n\n%s", emoji, notif.Title, notif.Message)
}
