// Package api provides handlers for external APIs and interfaces.
package api

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"riverbot/internal/entities"
)

// TelegramPublisher mirrors the river report to a Telegram chat. It is an
// optional second publish target; the default pipeline posts to Twitter.
type TelegramPublisher struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramPublisher creates a publisher for the given bot token and chat.
func NewTelegramPublisher(botToken string, chatID int64) (*TelegramPublisher, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %v", err)
	}
	slog.Info("authorized on Telegram", "account", bot.Self.UserName)

	return &TelegramPublisher{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Publish sends the charts as one media group with the summary text as the
// caption of the first image. Without images it falls back to a plain
// message.
func (t *TelegramPublisher) Publish(text string, images []entities.ChartImage) error {
	if len(images) == 0 {
		msg := tgbotapi.NewMessage(t.chatID, text)
		if _, err := t.bot.Send(msg); err != nil {
			return fmt.Errorf("failed to send message: %v", err)
		}
		return nil
	}

	var media []interface{}
	for i, img := range images {
		photo := tgbotapi.NewInputMediaPhoto(tgbotapi.FileBytes{
			Name:  img.Filename,
			Bytes: img.PNG,
		})
		if i == 0 {
			photo.Caption = text
		}
		media = append(media, photo)
	}

	group := tgbotapi.NewMediaGroup(t.chatID, media)
	if _, err := t.bot.SendMediaGroup(group); err != nil {
		return fmt.Errorf("failed to send media group: %v", err)
	}
	slog.Info("mirrored report to Telegram", "chatID", t.chatID, "images", len(images))
	return nil
}
