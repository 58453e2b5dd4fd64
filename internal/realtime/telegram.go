package realtime

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// ChatResolver maps a user id to a linked Telegram chat. Zero means the user
// has not linked Telegram.
type ChatResolver interface {
	TelegramChatID(ctx context.Context, userID int64) (int64, error)
}

// Telegram pushes events as Telegram messages to users who linked a chat.
// It is an optional second leg of the fan-out next to the in-process hub.
type Telegram struct {
	bot    *bot.Bot
	chats  ChatResolver
	logger *zap.Logger
}

func NewTelegram(token string, chats ChatResolver, logger *zap.Logger) (*Telegram, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Telegram{bot: b, chats: chats, logger: logger}, nil
}

// Publish sends the event text to the user's linked chat. Users without a
// linked chat are skipped silently.
func (t *Telegram) Publish(ctx context.Context, channel, event string, payload any) error {
	userID, err := strconv.ParseInt(channel, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram publish: channel %q is not a user id", channel)
	}

	chatID, err := t.chats.TelegramChatID(ctx, userID)
	if err != nil {
		return fmt.Errorf("telegram publish: resolve chat: %w", err)
	}
	if chatID == 0 {
		return nil
	}

	text := event
	if p, ok := payload.(TextPayload); ok {
		text = p.PushText()
	}

	_, err = t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("telegram publish: send message: %w", err)
	}

	return nil
}
