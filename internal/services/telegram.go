package services

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSender delivers HTML-formatted messages to a chat.
type TelegramSender interface {
	SendMessage(chatID int64, text string) error
}

type telegramSender struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramSender authenticates the bot token against the Bot API.
func NewTelegramSender(botToken string) (TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &telegramSender{bot: bot}, nil
}

func (t *telegramSender) SendMessage(chatID int64, text string) error {
	if chatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}
