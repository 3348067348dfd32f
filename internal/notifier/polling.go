package notifier

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CommandHandler is called when a user command is received.
type CommandHandler func(ctx context.Context, command string) string

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
	} `json:"message"`
}

type updatesResponse struct {
	OK     bool             `json:"ok"`
	Result []telegramUpdate `json:"result"`
}

// PollTimeout is the long-polling timeout passed to getUpdates.
var PollTimeout = 30 * time.Second

// getUpdates fetches the next batch of updates after offset.
func (t *TelegramNotifier) getUpdates(ctx context.Context, offset int) ([]telegramUpdate, error) {
	var result updatesResponse
	resp, err := t.Client.R().
		SetContext(ctx).
		SetPathParam("token", t.BotToken).
		SetQueryParams(map[string]string{
			"offset":  strconv.Itoa(offset),
			"timeout": strconv.Itoa(int(PollTimeout.Seconds())),
		}).
		SetResult(&result).
		Get("/bot{token}/getUpdates")
	if err != nil {
		return nil, errors.Wrap(err, "polling request")
	}
	if resp.IsError() || !result.OK {
		return nil, errors.Errorf("polling: status %d, body: %s", resp.StatusCode(), resp.String())
	}
	return result.Result, nil
}

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	for {
		select {
		case <-ctx.Done():
			log.Info("telegram polling stopped")
			return
		default:
		}

		updates, err := t.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.WithError(err).Warn("polling request failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		offset = t.dispatch(ctx, updates, offset, handler)
	}
}

// dispatch runs handler for every text message and returns the next offset.
func (t *TelegramNotifier) dispatch(ctx context.Context, updates []telegramUpdate, offset int, handler CommandHandler) int {
	for _, update := range updates {
		offset = update.UpdateID + 1
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		text := strings.TrimSpace(update.Message.Text)
		log.Infof("received command: %s", text)
		reply := handler(ctx, text)
		if reply != "" {
			if err := t.Send(ctx, reply); err != nil {
				log.WithError(err).Error("send reply")
			}
		}
	}
	return offset
}
