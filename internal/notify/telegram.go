package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"teamchat/internal/config"
)

// Mirror copies team announcements to an external chat.
type Mirror interface {
	Announce(ctx context.Context, team, author, text string) error
}

type noopMirror struct{}

func (noopMirror) Announce(context.Context, string, string, string) error { return nil }

type telegramMirror struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewMirror returns a Telegram mirror when the bot is configured and a no-op
// otherwise.
func NewMirror(cfg config.TelegramConfig) (Mirror, error) {
	if !cfg.Enabled() {
		return noopMirror{}, nil
	}
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	slog.Info("telegram mirror enabled", "bot", bot.Self.UserName, "chat_id", cfg.ChatID)
	return &telegramMirror{bot: bot, chatID: cfg.ChatID}, nil
}

func (m *telegramMirror) Announce(ctx context.Context, team, author, text string) error {
	msg := tgbotapi.NewMessage(m.chatID, formatAnnouncement(team, author, text))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := m.bot.Send(msg); err != nil {
		slog.WarnContext(ctx, "telegram announce failed", "chat_id", m.chatID, "error", err)
		return fmt.Errorf("telegram announce: %w", err)
	}
	return nil
}

func formatAnnouncement(team, author, text string) string {
	return fmt.Sprintf("<b>[%s]</b> %s:\n%s",
		html.EscapeString(team), html.EscapeString(author), html.EscapeString(text))
}
