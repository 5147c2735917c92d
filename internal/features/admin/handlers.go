// Package admin — handlers.go обрабатывает команды /reset и /stats.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fizzytracker.ru/tracker-bot/internal/common"
)

// Handler обрабатывает служебные команды.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик служебных команд.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleReset обрабатывает команду /reset <пароль>.
// Без правильного пароля история не трогается.
func (h *Handler) HandleReset(ctx context.Context, chatID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(chatID, "Использование: /reset <пароль>\n⚠️ Команда стирает ВСЮ историю без возможности восстановления.")
		return
	}

	password := strings.Join(args, " ")
	if err := h.service.VerifyPassword(password); err != nil {
		if errors.Is(err, common.ErrWrongPassword) {
			h.sendMessage(chatID, "❌ Неверный пароль")
		} else {
			h.sendMessage(chatID, fmt.Sprintf("❌ %s", err.Error()))
		}
		return
	}

	if err := h.service.Reset(ctx); err != nil {
		log.WithError(err).Error("Сброс истории не удался")
		h.sendMessage(chatID, "❌ Сброс не удался, история не тронута. Подробности в логах.")
		return
	}

	h.sendMessage(chatID, "🗑 История стёрта. Начинаем с чистого листа — /checkin")
}

// HandleStats обрабатывает команду /stats — сводка состояния бота.
func (h *Handler) HandleStats(ctx context.Context, chatID int64, now time.Time) {
	st := h.service.Stats(ctx, now)

	dbLine := "✅ в порядке"
	if !st.DBHealthy {
		dbLine = "❌ недоступна (работаем по локальной копии)"
	}

	firstLine := "—"
	if st.FirstEntryDate != "" {
		firstLine = st.FirstEntryDate
	}

	text := fmt.Sprintf(
		"📊 Состояние\n\n"+
			"Записей дней: %d\n"+
			"Первая запись: %s\n"+
			"Серия: %s (рекорд %s)\n"+
			"Наград: %d\n"+
			"База: %s\n"+
			"Аптайм: %s",
		st.EntryCount,
		firstLine,
		common.FormatDays(st.CurrentStreak), common.FormatDays(st.LongestStreak),
		st.RewardCount,
		dbLine,
		st.Uptime.Round(time.Second),
	)
	h.sendMessage(chatID, text)
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
