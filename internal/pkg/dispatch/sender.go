package dispatch

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// FailureKind classifies a delivery failure per spec §4.7/§7.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureTransient
	FailurePermanent
	FailureRateLimited
)

// SendError is the classified result of a failed Sender.Send call.
type SendError struct {
	Kind       FailureKind
	RetryAfter time.Duration // only meaningful when Kind == FailureRateLimited
	Err        error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("dispatch: send failed (%v): %v", e.Kind, e.Err)
}
func (e *SendError) Unwrap() error { return e.Err }

// Sender delivers one message body to one channel via one bot identity.
type Sender interface {
	Send(ctx context.Context, channelID, body string) error
}

// TelegramSender implements Sender over go-telegram-bot-api, grounded on
// the teacher's telegram_notifier.go (bot.Send with ModeHTML, since this
// pipeline renders HTML bodies rather than the teacher's Markdown).
type TelegramSender struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramSender constructs a Sender backed by a bot identified by
// token.
func NewTelegramSender(token string) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("dispatch: initializing telegram bot: %w", err)
	}
	return &TelegramSender{bot: bot}, nil
}

func (s *TelegramSender) Send(ctx context.Context, channelID, body string) error {
	chatID, err := parseChannelID(channelID)
	if err != nil {
		return &SendError{Kind: FailurePermanent, Err: err}
	}
	msg := tgbotapi.NewMessage(chatID, body)
	msg.ParseMode = tgbotapi.ModeHTML

	_, err = s.bot.Send(msg)
	if err == nil {
		return nil
	}
	return classifyTelegramError(err)
}

func parseChannelID(channelID string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(channelID, "%d", &id); err != nil {
		return 0, fmt.Errorf("dispatch: channel id %q is not numeric: %w", channelID, err)
	}
	return id, nil
}

// classifyTelegramError maps a bot-api error into the failure taxonomy
// spec §4.7 requires. tgbotapi surfaces HTTP-level errors as *tgbotapi.Error
// carrying a status code; anything else is treated as transient, since a
// transport-level failure (timeout, connection reset) should be retried.
func classifyTelegramError(err error) error {
	apiErr, ok := err.(*tgbotapi.Error)
	if !ok {
		return &SendError{Kind: FailureTransient, Err: err}
	}
	switch {
	case apiErr.Code == 429:
		retryAfter := time.Duration(apiErr.RetryAfter) * time.Second
		if retryAfter <= 0 {
			retryAfter = time.Second
		}
		return &SendError{Kind: FailureRateLimited, RetryAfter: retryAfter, Err: err}
	case apiErr.Code >= 500:
		return &SendError{Kind: FailureTransient, Err: err}
	case apiErr.Code >= 400:
		return &SendError{Kind: FailurePermanent, Err: err}
	default:
		return &SendError{Kind: FailureTransient, Err: err}
	}
}
