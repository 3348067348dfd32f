package notifier

import (
	"context"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const telegramBaseURL = "https://api.telegram.org"

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	Client   *resty.Client
	// InitialInterval is the first retry delay of SendWithRetry.
	InitialInterval time.Duration
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	client := resty.New().
		SetBaseURL(telegramBaseURL).
		SetTimeout(35 * time.Second)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &TelegramNotifier{
		BotToken:        botToken,
		ChatID:          chatID,
		Client:          client,
		InitialInterval: time.Second,
	}
}

// Send sends a message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	resp, err := t.Client.R().
		SetContext(ctx).
		SetPathParam("token", t.BotToken).
		SetBody(map[string]string{
			"chat_id":    t.ChatID,
			"text":       text,
			"parse_mode": "HTML",
		}).
		Post("/bot{token}/sendMessage")
	if err != nil {
		return errors.Wrap(err, "send message")
	}
	if resp.StatusCode() != http.StatusOK {
		return errors.Errorf("telegram API error: status %d, body: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = t.InitialInterval
	exp.Multiplier = 2
	exp.RandomizationFactor = 0

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		return t.Send(ctx, text)
	}, backoff.WithContext(backoff.WithMaxRetries(exp, uint64(maxRetries)), ctx),
		func(err error, next time.Duration) {
			log.WithError(err).Warnf("telegram send failed (attempt %d/%d), retrying in %v", attempt, maxRetries+1, next)
		})
	if err != nil {
		return errors.Wrapf(err, "all %d attempts exhausted", attempt)
	}
	return nil
}
