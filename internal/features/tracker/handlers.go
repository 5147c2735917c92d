// Package tracker — handlers.go обрабатывает команду /checkin и нажатия
// кнопок чек-ина. Меню — inline-клавиатура с четырьмя кнопками:
// по две («чисто» / «была газировка») на каждое окно.
package tracker

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

// callbackPrefix — префикс callback-данных кнопок чек-ина.
const callbackPrefix = "checkin"

// Handler обрабатывает чек-ин команды.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт новый обработчик чек-инов.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleCheckin обрабатывает команду /checkin — показывает меню отметки.
func (h *Handler) HandleCheckin(ctx context.Context, chatID int64, now time.Time) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("☀️ День: чисто ✅", callbackData(PeriodAfternoon, false)),
			tgbotapi.NewInlineKeyboardButtonData("☀️ День: была 🥤", callbackData(PeriodAfternoon, true)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌙 Вечер: чисто ✅", callbackData(PeriodEvening, false)),
			tgbotapi.NewInlineKeyboardButtonData("🌙 Вечер: была 🥤", callbackData(PeriodEvening, true)),
		),
	)

	text := "Как прошло? Отметь окно:"
	if entry, ok := h.service.GetTodayEntry(now); ok {
		text += "\n\n" + todayLine(entry)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки меню чек-ина")
	}
}

// MatchesCallback сообщает, относится ли callback к чек-ину.
func MatchesCallback(data string) bool {
	return strings.HasPrefix(data, callbackPrefix+":")
}

// HandleCallback обрабатывает нажатие кнопки чек-ина.
// Сохранение в базу может не удаться — тогда отметка остаётся
// в локальной копии, а пользователь получает мягкое предупреждение.
func (h *Handler) HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, now time.Time) {
	period, hadDrink, err := parseCallbackData(query.Data)
	if err != nil {
		log.WithField("data", query.Data).Warn("Некорректные callback-данные чек-ина")
		h.answerCallback(query.ID, "Не понял кнопку 🤷")
		return
	}

	entry, err := h.service.CheckIn(ctx, now, period, hadDrink)
	switch {
	case errors.Is(err, common.ErrSaveFailed):
		h.answerCallback(query.ID, "Отметил локально, база недоступна ⚠️")
	case err != nil:
		log.WithError(err).Error("Чек-ин не применился")
		h.answerCallback(query.ID, "Что-то пошло не так 😔")
		return
	default:
		h.answerCallback(query.ID, "Записал ✅")
	}

	// Обновляем сообщение с меню — показываем итог дня
	if query.Message != nil {
		edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID,
			fmt.Sprintf("Отметка за %s сохранена.\n\n%s", displayDate(entry.Date), todayLine(entry)))
		if _, err := h.bot.Send(edit); err != nil {
			log.WithError(err).Debug("Не удалось обновить сообщение чек-ина")
		}
	}
}

// callbackData собирает callback-данные кнопки: "checkin:<period>:<clean|drink>".
func callbackData(period Period, hadDrink bool) string {
	outcome := "clean"
	if hadDrink {
		outcome = "drink"
	}
	return fmt.Sprintf("%s:%s:%s", callbackPrefix, period, outcome)
}

// parseCallbackData разбирает callback-данные кнопки чек-ина.
func parseCallbackData(data string) (Period, bool, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != callbackPrefix {
		return "", false, fmt.Errorf("некорректные callback-данные: %q", data)
	}

	period := Period(parts[1])
	if period != PeriodAfternoon && period != PeriodEvening {
		return "", false, fmt.Errorf("неизвестное окно: %q", parts[1])
	}

	switch parts[2] {
	case "clean":
		return period, false, nil
	case "drink":
		return period, true, nil
	default:
		return "", false, fmt.Errorf("неизвестный исход: %q", parts[2])
	}
}

// todayLine — строка состояния сегодняшних окон.
func todayLine(e DayEntry) string {
	return fmt.Sprintf("Сегодня: день %s · вечер %s",
		outcomeMark(e.AfternoonCheckin, e.AfternoonHadDrink),
		outcomeMark(e.EveningCheckin, e.EveningHadDrink))
}

// outcomeMark — значок окна: ✅ чисто, 🥤 была газировка, — нет отметки.
func outcomeMark(checkedIn, hadDrink bool) string {
	switch {
	case !checkedIn:
		return "—"
	case hadDrink:
		return "🥤"
	default:
		return "✅"
	}
}

// displayDate переводит ключ "YYYY-MM-DD" в короткий вид "15.06".
func displayDate(key string) string {
	d, err := common.ParseDate(key, time.UTC)
	if err != nil {
		return key
	}
	return d.Format("02.01")
}

// answerCallback отвечает на callback всплывающим уведомлением.
func (h *Handler) answerCallback(callbackID, text string) {
	cb := tgbotapi.NewCallback(callbackID, text)
	if _, err := h.bot.Request(cb); err != nil {
		log.WithError(err).Debug("Не удалось ответить на callback")
	}
}
