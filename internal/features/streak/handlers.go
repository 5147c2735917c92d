// Package streak — handlers.go обрабатывает команду /streak.
// Показывает текущую серию, личный рекорд и состояние сегодняшних окон.
package streak

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fizzytracker.ru/tracker-bot/internal/common"
	"fizzytracker.ru/tracker-bot/internal/features/tracker"
)

// Handler обрабатывает команды стрик-системы.
type Handler struct {
	service *Service
	tracker *tracker.Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт новый обработчик стрик-команд.
func NewHandler(service *Service, trackerService *tracker.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, tracker: trackerService, bot: bot}
}

// HandleStreak обрабатывает команду /streak.
//
// Формат ответа:
//
//	🔥 Твоя серия: 8 дней
//	🏆 Рекорд: 12 дней
//	Сегодня: день ✅ · вечер —
func (h *Handler) HandleStreak(ctx context.Context, chatID int64, now time.Time) {
	current, longest := h.service.Streaks(now)

	var todayLine string
	if entry, ok := h.tracker.GetTodayEntry(now); ok {
		todayLine = fmt.Sprintf("Сегодня: день %s · вечер %s",
			checkinMark(entry.AfternoonCheckin, entry.AfternoonHadDrink),
			checkinMark(entry.EveningCheckin, entry.EveningHadDrink))
	} else {
		todayLine = "Сегодня отметок ещё нет"
	}

	text := fmt.Sprintf(
		"🔥 Твоя серия: %s\n🏆 Рекорд: %s\n\n%s",
		common.FormatDays(current),
		common.FormatDays(longest),
		todayLine,
	)
	h.sendMessage(chatID, text)
}

// checkinMark — значок состояния окна: ✅ чисто, 🥤 была газировка, — нет отметки.
func checkinMark(checkedIn, hadDrink bool) string {
	switch {
	case !checkedIn:
		return "—"
	case hadDrink:
		return "🥤"
	default:
		return "✅"
	}
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
