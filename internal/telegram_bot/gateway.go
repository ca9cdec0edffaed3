package telegram_bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// gateway adapts the Telegram Bot API to the moderation.Gateway interface.
type gateway struct {
	api *tgbotapi.BotAPI
}

func (g *gateway) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := g.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (g *gateway) Reply(chatID int64, replyTo int, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	sent, err := g.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to send reply: %w", err)
	}
	return sent.MessageID, nil
}

func (g *gateway) DeleteMessage(chatID int64, messageID int) error {
	if _, err := g.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func (g *gateway) ForwardMessage(toChatID, fromChatID int64, messageID int) error {
	if _, err := g.api.Send(tgbotapi.NewForward(toChatID, fromChatID, messageID)); err != nil {
		return fmt.Errorf("failed to forward message: %w", err)
	}
	return nil
}

// CanDeleteMessages reports whether the bot is an administrator with
// delete rights in the chat.
func (g *gateway) CanDeleteMessages(chatID int64) (bool, error) {
	member, err := g.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: g.api.Self.ID,
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to get chat member: %w", err)
	}

	if member.Status != "administrator" {
		return false, nil
	}
	return member.CanDeleteMessages, nil
}
