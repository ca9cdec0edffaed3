package moderation

// Gateway is the messaging-platform capability the enforcement controller
// acts through. The Telegram implementation lives in telegram_bot; tests
// supply a fake.
type Gateway interface {
	// SendMessage posts a plain text message to a chat.
	SendMessage(chatID int64, text string) error
	// Reply posts a text reply to a message and returns the ID of the
	// sent message.
	Reply(chatID int64, replyTo int, text string) (int, error)
	// DeleteMessage removes a message by ID.
	DeleteMessage(chatID int64, messageID int) error
	// ForwardMessage forwards a message to another chat.
	ForwardMessage(toChatID, fromChatID int64, messageID int) error
	// CanDeleteMessages reports whether the acting bot may delete
	// messages in the chat.
	CanDeleteMessages(chatID int64) (bool, error)
}

// Message carries the metadata the controller needs about an inbound
// message.
type Message struct {
	ChatID    int64
	ChatTitle string
	IsPrivate bool
	MessageID int
	UserID    int64
	Username  string
	Text      string
}
