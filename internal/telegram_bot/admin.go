package telegram_bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"chatguard/internal/word_filter"
)

func onOff(on bool) string {
	if on {
		return "✅"
	}
	return "❌"
}

func (b *Bot) mainAdminKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(onOff(b.control.ProfanityEnabled())+" Брань", "toggle_profanity"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(onOff(b.control.AdvertisingEnabled())+" Реклама", "toggle_ad"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(onOff(b.control.SemanticEnabled())+" Нейросеть", "toggle_semantic"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Статистика", "show_statistics"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Список слов", "list_words"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📜 Команды", "show_commands"),
		),
	)
}

func backToAdminKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад в панель", "back_to_admin"),
		),
	)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	b.logger.Info("Admin command",
		zap.String("command", message.Command()),
		zap.Int64("user_id", message.From.ID),
	)

	switch message.Command() {
	case "admin":
		if !message.Chat.IsPrivate() {
			b.reply(message, "⚠️ Админ-панель доступна только в личке с ботом")
			return
		}
		msg := tgbotapi.NewMessage(message.Chat.ID, "Панель администратора:")
		msg.ReplyMarkup = b.mainAdminKeyboard()
		if _, err := b.api.Send(msg); err != nil {
			b.logger.Error("Failed to send admin panel", zap.Error(err))
		}

	case "check_chat":
		b.setChecking(true)
		b.reply(message, "✅ Бот готов анализировать все сообщения, которые ты пришлёшь в ЛС.\n📩 Просто отправь сообщения, и я их проверю на нарушения.")

	case "stop_check_chat":
		b.setChecking(false)
		b.reply(message, "🛑 Режим анализа отключён.")

	case "check_permissions":
		if message.Chat.IsPrivate() {
			b.reply(message, "ℹ️ Эта команда работает только в группах и каналах")
			return
		}
		canDelete, err := b.Gateway().CanDeleteMessages(message.Chat.ID)
		if err != nil {
			b.logger.Warn("Failed to check bot permissions", zap.Int64("chat_id", message.Chat.ID), zap.Error(err))
		}
		if canDelete {
			b.reply(message, "✅ Бот имеет необходимые права администратора")
		} else {
			b.reply(message, "❌ Бот не имеет прав администратора или прав недостаточно. Требуются права на удаление сообщений.")
		}

	case "add_profanity":
		b.wordCommand(message, word_filter.CategoryProfanity, true)
	case "del_profanity":
		b.wordCommand(message, word_filter.CategoryProfanity, false)
	case "add_ad":
		b.wordCommand(message, word_filter.CategoryAdvertising, true)
	case "del_ad":
		b.wordCommand(message, word_filter.CategoryAdvertising, false)
	case "add_custom":
		b.wordCommand(message, word_filter.CategoryCustom, true)
	case "del_custom":
		b.wordCommand(message, word_filter.CategoryCustom, false)

	case "set_model":
		name := strings.TrimSpace(message.CommandArguments())
		if name == "" {
			b.reply(message, "❌ Укажи модель: /set_model <имя>\nДоступные:\n"+strings.Join(b.control.AvailableModels(), "\n"))
			return
		}
		if err := b.control.SetModel(name); err != nil {
			b.reply(message, "❌ Неизвестная модель. Доступные:\n"+strings.Join(b.control.AvailableModels(), "\n"))
			return
		}
		b.reply(message, "✅ Модель переключена: "+name)

	case "toggle_topic":
		args := strings.Fields(message.CommandArguments())
		if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
			b.reply(message, "❌ Формат: /toggle_topic <имя> <on|off>")
			return
		}
		if !b.control.ToggleTopic(args[0], args[1] == "on") {
			b.reply(message, "❌ Неизвестная тема: "+args[0])
			return
		}
		b.reply(message, fmt.Sprintf("✅ Тема %s: %s", args[0], onOff(args[1] == "on")))
	}
}

func (b *Bot) wordCommand(message *tgbotapi.Message, cat word_filter.Category, add bool) {
	word := strings.ToLower(strings.TrimSpace(message.CommandArguments()))
	if word == "" {
		b.reply(message, fmt.Sprintf("❌ Укажи слово: /%s слово", message.Command()))
		return
	}

	var err error
	if add {
		err = b.control.AddWord(cat, word)
	} else {
		err = b.control.RemoveWord(cat, word)
	}
	if err != nil {
		b.logger.Error("Word command failed", zap.String("command", message.Command()), zap.Error(err))
		b.reply(message, "❌ Не удалось обновить список слов")
		return
	}

	if add {
		b.reply(message, "✅ Добавлено слово: "+word)
	} else {
		b.reply(message, "✅ Удалено слово: "+word)
	}
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	if query.From == nil || !b.cfg.IsAdmin(query.From.ID) {
		callback := tgbotapi.NewCallbackWithAlert(query.ID, "Нет доступа")
		if _, err := b.api.Request(callback); err != nil {
			b.logger.Error("Failed to answer callback query", zap.Error(err))
		}
		return
	}

	switch query.Data {
	case "toggle_profanity":
		b.editPanel(query, fmt.Sprintf("Фильтр брани: %s", onOffLabel(b.control.ToggleProfanity())), backToAdminKeyboard())

	case "toggle_ad":
		b.editPanel(query, fmt.Sprintf("Фильтр рекламы: %s", onOffLabel(b.control.ToggleAdvertising())), backToAdminKeyboard())

	case "toggle_semantic":
		b.editPanel(query, fmt.Sprintf("Проверка нейросетью: %s", onOffLabel(b.control.ToggleSemantic())), backToAdminKeyboard())

	case "show_statistics":
		stats, err := b.control.Stats()
		if err != nil {
			b.logger.Error("Failed to load statistics", zap.Error(err))
			b.editPanel(query, "❌ Не удалось загрузить статистику", backToAdminKeyboard())
			break
		}
		b.editPanel(query, fmt.Sprintf(
			"📊 Статистика:\nПоследний час: %d\nПоследняя неделя: %d\nВсего: %d (нарушений: %d)",
			stats.LastHour, stats.LastWeek, stats.Total, stats.Violations,
		), backToAdminKeyboard())

	case "list_words":
		b.editPanel(query, fmt.Sprintf(
			"📝 Список слов:\n🚫 Брань: %s\n📢 Реклама: %s\n🧩 Пользовательские: %s",
			joinWords(b.control.Words(word_filter.CategoryProfanity)),
			joinWords(b.control.Words(word_filter.CategoryAdvertising)),
			joinWords(b.control.Words(word_filter.CategoryCustom)),
		), backToAdminKeyboard())

	case "show_commands":
		b.editPanel(query,
			"📜 Команды администратора:\n\n/admin — открыть панель\n/check_chat — анализ ЛС\n/check_permissions\n/add_profanity <слово>\n/del_profanity <слово>\n/add_ad <слово>\n/del_ad <слово>\n/add_custom <слово>\n/del_custom <слово>\n/set_model <имя>\n/toggle_topic <имя> <on|off>",
			backToAdminKeyboard())

	case "back_to_admin":
		b.editPanel(query, "Панель администратора:", b.mainAdminKeyboard())
	}

	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := b.api.Request(callback); err != nil {
		b.logger.Error("Failed to answer callback query", zap.Error(err))
	}
}

func (b *Bot) editPanel(query *tgbotapi.CallbackQuery, text string, markup tgbotapi.InlineKeyboardMarkup) {
	if query.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(query.Message.Chat.ID, query.Message.MessageID, text, markup)
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error("Failed to edit panel message", zap.Error(err))
	}
}

func onOffLabel(on bool) string {
	if on {
		return "✅ Вкл"
	}
	return "❌ Выкл"
}

func joinWords(words []string) string {
	if len(words) == 0 {
		return "нет"
	}
	return strings.Join(words, ", ")
}
