// Package filters решает, кому бот вообще отвечает.
// Трекер персональный: единственный разрешённый собеседник — владелец,
// и только в личных сообщениях.
package filters

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

type OwnerFilter struct {
	ownerID int64
	bot     *tgbotapi.BotAPI
}

func NewOwnerFilter(ownerID int64, bot *tgbotapi.BotAPI) *OwnerFilter {
	return &OwnerFilter{ownerID: ownerID, bot: bot}
}

// CheckAccess пропускает только личный чат владельца.
// Чужим в личке отвечаем отказом один раз, группы молча игнорируем.
func (f *OwnerFilter) CheckAccess(message *tgbotapi.Message) bool {
	if message == nil || message.Chat == nil || message.From == nil {
		log.WithField("component", "OwnerFilter").Warn("nil message/chat/from (сервисное сообщение?)")
		return false
	}
	if f.ownerID == 0 {
		log.WithField("component", "OwnerFilter").Error("ownerID равен 0 (ошибка конфигурации)")
		return false
	}

	logger := log.WithFields(log.Fields{
		"component": "OwnerFilter",
		"chat_id":   message.Chat.ID,
		"chat_type": message.Chat.Type,
		"user_id":   message.From.ID,
	})

	if !message.Chat.IsPrivate() {
		logger.Debug("deny: не личный чат")
		return false
	}

	if message.From.ID != f.ownerID {
		logger.Info("deny: не владелец")
		msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Это персональный бот, он работает только для своего владельца")
		if _, err := f.bot.Send(msg); err != nil {
			logger.WithError(err).Warn("Не удалось отправить отказ")
		}
		return false
	}

	logger.Debug("allow: владелец")
	return true
}

// CheckCallbackAccess — тот же фильтр для нажатий inline-кнопок.
func (f *OwnerFilter) CheckCallbackAccess(query *tgbotapi.CallbackQuery) bool {
	if query == nil || query.From == nil {
		return false
	}
	if query.From.ID != f.ownerID {
		log.WithFields(log.Fields{
			"component": "OwnerFilter",
			"user_id":   query.From.ID,
		}).Info("deny callback: не владелец")
		return false
	}
	return true
}
