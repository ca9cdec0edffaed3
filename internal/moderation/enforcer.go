package moderation

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"chatguard/internal/repository"
)

// WarnRetractionDelay is how long a warning reply stays visible before it
// is retracted.
const WarnRetractionDelay = 10 * time.Second

// Controller acts on a resolved verdict: it records the audit event,
// notifies the log chat, and deletes or warns depending on the chat kind.
// Every enforcement sub-step is best-effort; only an audit store failure
// aborts the remaining steps, and even that stays contained to the
// message's own handling.
type Controller struct {
	gateway   Gateway
	events    repository.EventRepository
	logger    *zap.Logger
	logChatID int64
	warnDelay time.Duration
	done      chan struct{}
}

// NewController creates a Controller. logChatID may be zero to disable
// log-chat notices. warnDelay is how long a warning reply stays up before
// it is retracted.
func NewController(gateway Gateway, events repository.EventRepository, logChatID int64, warnDelay time.Duration, logger *zap.Logger) *Controller {
	return &Controller{
		gateway:   gateway,
		events:    events,
		logger:    logger,
		logChatID: logChatID,
		warnDelay: warnDelay,
		done:      make(chan struct{}),
	}
}

// Close abandons pending warning retractions. Messages already being
// handled run to completion.
func (c *Controller) Close() {
	close(c.done)
}

// Handle drives the enforcement state machine for one classified message.
// A nil error means the message reached its terminal state; a non-nil
// error means the audit store was unreachable and the message's handling
// stops there.
func (c *Controller) Handle(msg Message, verdict Verdict) error {
	now := time.Now()

	if verdict == VerdictNone {
		if err := c.events.Append(EventMessageOK, now); err != nil {
			return fmt.Errorf("failed to record clean message: %w", err)
		}
		return nil
	}

	// The audit trail records the violation before any action is taken,
	// so logging never depends on enforcement succeeding.
	if err := c.events.Append(string(verdict), now); err != nil {
		return fmt.Errorf("failed to record violation: %w", err)
	}

	c.notifyLogChat(msg, verdict)
	c.enforce(msg, verdict)
	return nil
}

func (c *Controller) notifyLogChat(msg Message, verdict Verdict) {
	if c.logChatID == 0 {
		return
	}

	title := msg.ChatTitle
	if title == "" {
		title = "ЛС"
	}
	notice := fmt.Sprintf(
		"🚨 Нарушение!\n📌 Чат: %d (%s)\n👤 Пользователь: @%s (%d)\nТип нарушения: %s\nТекст: %s",
		msg.ChatID, title, msg.Username, msg.UserID, verdict, msg.Text,
	)

	if err := c.gateway.SendMessage(c.logChatID, notice); err != nil {
		c.logger.Error("Failed to send violation notice to log chat", zap.Error(err))
		return
	}
	if err := c.gateway.ForwardMessage(c.logChatID, msg.ChatID, msg.MessageID); err != nil {
		c.logger.Error("Failed to forward violating message to log chat", zap.Error(err))
	}
}

func (c *Controller) enforce(msg Message, verdict Verdict) {
	if msg.IsPrivate {
		reply := fmt.Sprintf("❌ Ваше сообщение содержит запрещенный контент. Причина: %s", verdict.Reason())
		if _, err := c.gateway.Reply(msg.ChatID, msg.MessageID, reply); err != nil {
			c.logger.Error("Failed to reply in private chat", zap.Error(err))
		}
		return
	}

	canDelete, err := c.gateway.CanDeleteMessages(msg.ChatID)
	if err != nil {
		c.logger.Warn("Could not determine delete permission, leaving message in place",
			zap.Int64("chat_id", msg.ChatID), zap.Error(err))
		return
	}
	if !canDelete {
		c.logger.Info("Bot has no delete permission in chat, violation recorded only",
			zap.Int64("chat_id", msg.ChatID))
		return
	}

	warning := fmt.Sprintf("⚠️ Сообщение от @%s удалено.\nПричина: %s", msg.Username, verdict.Reason())
	warningID, err := c.gateway.Reply(msg.ChatID, msg.MessageID, warning)
	if err != nil {
		c.logger.Error("Failed to send warning reply", zap.Error(err))
	}

	if err := c.gateway.DeleteMessage(msg.ChatID, msg.MessageID); err != nil {
		c.logger.Error("Failed to delete violating message",
			zap.Int64("chat_id", msg.ChatID), zap.Int("message_id", msg.MessageID), zap.Error(err))
	}

	if warningID != 0 {
		c.scheduleRetraction(msg.ChatID, warningID)
	}
}

// scheduleRetraction removes the warning reply after the configured delay.
// A failed retraction is swallowed; shutdown abandons pending ones.
func (c *Controller) scheduleRetraction(chatID int64, messageID int) {
	timer := time.NewTimer(c.warnDelay)
	go func() {
		defer timer.Stop()
		select {
		case <-timer.C:
			_ = c.gateway.DeleteMessage(chatID, messageID)
		case <-c.done:
		}
	}()
}
