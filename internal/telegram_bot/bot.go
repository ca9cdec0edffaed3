package telegram_bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"chatguard/internal/config"
	"chatguard/internal/moderation"
	"chatguard/internal/repository"
	"chatguard/internal/service"
)

// Bot drives the moderation pipeline from Telegram updates and exposes
// the admin command surface.
type Bot struct {
	api        *tgbotapi.BotAPI
	cfg        *config.Config
	control    *service.ControlService
	resolver   *moderation.Resolver
	controller *moderation.Controller
	logger     *zap.Logger

	mu       sync.Mutex
	checking bool // admin DM analysis mode
}

// NewBot creates a new Telegram bot instance. The enforcement controller
// is built here because it acts through this bot's gateway.
func NewBot(cfg *config.Config, control *service.ControlService, resolver *moderation.Resolver, events repository.EventRepository, logger *zap.Logger) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram bot authorized", zap.String("username", botAPI.Self.UserName))

	gw := &gateway{api: botAPI}
	controller := moderation.NewController(gw, events, cfg.Telegram.LogChatID, moderation.WarnRetractionDelay, logger)

	return &Bot{
		api:        botAPI,
		cfg:        cfg,
		control:    control,
		resolver:   resolver,
		controller: controller,
		logger:     logger,
	}, nil
}

// Gateway returns the moderation gateway backed by this bot's API.
func (b *Bot) Gateway() moderation.Gateway {
	return &gateway{api: b.api}
}

// Close abandons pending enforcement timers.
func (b *Bot) Close() {
	b.controller.Close()
}

// Start begins listening for updates from Telegram. Each message is
// handled in its own goroutine; a panic or store failure in one message's
// handling never stops the update loop.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Telegram bot started, waiting for updates...")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Telegram bot shutting down...")
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			if update.CallbackQuery != nil {
				go b.safeHandle(ctx, func() { b.handleCallbackQuery(update.CallbackQuery) })
			} else if update.Message != nil {
				message := update.Message
				go b.safeHandle(ctx, func() { b.handleMessage(ctx, message) })
			}
		}
	}
}

// safeHandle is the blast-radius boundary for one update: whatever goes
// wrong inside, the loop keeps accepting future updates.
func (b *Bot) safeHandle(_ context.Context, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic while handling update", zap.Any("panic", r))
		}
	}()
	fn()
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	if message.IsCommand() && b.cfg.IsAdmin(message.From.ID) {
		b.handleCommand(ctx, message)
		return
	}

	b.moderate(ctx, message)

	if b.checkingEnabled() && b.cfg.IsAdmin(message.From.ID) && message.Chat.IsPrivate() {
		b.analyze(ctx, message)
	}
}

func messageText(message *tgbotapi.Message) string {
	if message.Text != "" {
		return message.Text
	}
	return message.Caption
}

func senderName(message *tgbotapi.Message) string {
	if message.From.UserName != "" {
		return message.From.UserName
	}
	return message.From.FirstName
}

// moderate runs the main enforcement path for one inbound message.
func (b *Bot) moderate(ctx context.Context, message *tgbotapi.Message) {
	if !message.Chat.IsPrivate() && !b.cfg.ChatAllowed(message.Chat.ID) {
		return
	}

	text := messageText(message)

	b.logger.Debug("Incoming message",
		zap.Int64("chat_id", message.Chat.ID),
		zap.String("chat_type", message.Chat.Type),
		zap.Int64("user_id", message.From.ID),
	)

	verdict := b.resolver.Resolve(ctx, text)

	msg := moderation.Message{
		ChatID:    message.Chat.ID,
		ChatTitle: message.Chat.Title,
		IsPrivate: message.Chat.IsPrivate(),
		MessageID: message.MessageID,
		UserID:    message.From.ID,
		Username:  senderName(message),
		Text:      text,
	}

	if err := b.controller.Handle(msg, verdict); err != nil {
		b.logger.Error("Failed to handle message verdict",
			zap.Int64("chat_id", message.Chat.ID),
			zap.Int("message_id", message.MessageID),
			zap.Error(err),
		)
	}
}

// analyze runs the report-only exhaustive path for the admin DM analysis
// mode.
func (b *Bot) analyze(ctx context.Context, message *tgbotapi.Message) {
	text := messageText(message)
	if text == "" {
		b.reply(message, "⚠️ Пустое сообщение — текст или подпись отсутствуют.")
		return
	}

	verdict := b.resolver.ResolveExhaustive(ctx, text)
	if verdict != moderation.VerdictNone {
		b.reply(message, fmt.Sprintf("🚨 Обнаружено нарушение: %s", verdict.Reason()))
	} else {
		b.reply(message, "✅ Нарушений не обнаружено")
	}
}

func (b *Bot) checkingEnabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.checking
}

func (b *Bot) setChecking(on bool) {
	b.mu.Lock()
	b.checking = on
	b.mu.Unlock()
}

func (b *Bot) reply(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send reply", zap.Int64("chat_id", message.Chat.ID), zap.Error(err))
	}
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
