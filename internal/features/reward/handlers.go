// Package reward — handlers.go обрабатывает команду /rewards.
// Показывает витрину разблокированных наград.
package reward

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Handler обрабатывает команды наград.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
	loc     *time.Location
}

// NewHandler создаёт новый обработчик команд наград.
func NewHandler(service *Service, bot *tgbotapi.BotAPI, loc *time.Location) *Handler {
	return &Handler{service: service, bot: bot, loc: loc}
}

// HandleRewards обрабатывает команду /rewards.
//
// Формат ответа:
//
//	🎖 Твои награды (3)
//
//	👟 Первые шаги — 15.06.2025
//	Первая неделя трекинга позади! ...
func (h *Handler) HandleRewards(ctx context.Context, chatID int64) {
	rewards, err := h.service.List(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка загрузки наград")
		h.sendMessage(chatID, "❌ Не удалось загрузить награды, попробуй позже")
		return
	}

	if len(rewards) == 0 {
		h.sendMessage(chatID, "Пока наград нет. Заверши неделю с результатом 70%+ — и первая появится здесь 🎖")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🎖 Твои награды (%d)\n", len(rewards))
	for _, rw := range rewards {
		fmt.Fprintf(&sb, "\n%s %s — %s\n%s\n",
			rw.Icon, rw.Title,
			rw.UnlockedAt.In(h.loc).Format("02.01.2006"),
			rw.Description)
	}
	h.sendMessage(chatID, sb.String())
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
