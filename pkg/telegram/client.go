package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier defines the interface for sending Telegram notifications.
type Notifier interface {
	SendMessage(chatID int64, text string) error
}

// client is an implementation of Notifier backed by a bot account.
type client struct {
	bot *tgbotapi.BotAPI
}

// NewClient creates a new Telegram notifier client.
func NewClient(botToken string) (Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &client{bot: bot}, nil
}

// SendMessage sends a Markdown-formatted message to the given chat.
func (c *client) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := c.bot.Send(msg)
	return err
}
