package notify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// defaultTelegramTimeout bounds every bot API request when no timeout is configured.
const defaultTelegramTimeout = 30 * time.Second

// Telegram sends alerts as bot messages. The recipient is a chat ID.
type Telegram struct {
	bot *tgbotapi.BotAPI
}

// NewTelegram logs the bot in with token. Every request, including the
// login, gives up after timeout.
func NewTelegram(token string, timeout time.Duration) (*Telegram, error) {
	return newTelegram(token, tgbotapi.APIEndpoint, timeout)
}

func newTelegram(token, endpoint string, timeout time.Duration) (*Telegram, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}
	if timeout <= 0 {
		timeout = defaultTelegramTimeout
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Telegram{bot: bot}, nil
}

func (t *Telegram) Name() string { return "telegram" }

// Send posts message to the chat. The bot API takes no context, so the
// request runs aside and Send returns as soon as ctx is done; the HTTP
// client timeout ends the request itself.
func (t *Telegram) Send(ctx context.Context, recipient, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := NewTelegramMessage(recipient, message)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		_, err := t.bot.Send(msg)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send telegram message: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("telegram message not confirmed: %w", ctx.Err())
	}
}

// NewTelegramMessage builds the bot message for a chat ID recipient.
func NewTelegramMessage(recipient, message string) (tgbotapi.MessageConfig, error) {
	chatID, err := strconv.ParseInt(recipient, 10, 64)
	if err != nil {
		return tgbotapi.MessageConfig{}, fmt.Errorf("telegram recipient must be a chat ID, got %q", recipient)
	}
	return tgbotapi.NewMessage(chatID, "📷 "+message), nil
}
