// Package report — handlers.go обрабатывает команды /week и /month.
// Рендерит недельную сетку и месячную сводку в текст для Telegram.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fizzytracker.ru/tracker-bot/internal/common"
)

// weekdayNames — короткие русские названия дней, неделя с воскресенья.
var weekdayNames = [...]string{"вс", "пн", "вт", "ср", "чт", "пт", "сб"}

// trendLabels — отображение тренда в ответах бота.
var trendLabels = map[Trend]string{
	TrendImproving: "📈 Улучшается",
	TrendDeclining: "📉 Снижается",
	TrendSteady:    "➡️ Стабильно",
	TrendNA:        "— мало данных",
}

// Handler обрабатывает отчётные команды.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт новый обработчик отчётов.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleWeek обрабатывает команду /week — отчёт за текущую неделю.
//
// Формат ответа:
//
//	📅 Неделя 15.06 – 21.06
//	вс ✅✅  пн ✅—  вт 🥤✅ ...
//	Чисто: 9 из 10 ожидаемых · пропущено 1
//	Результат: 90%
//	🎖 Награда: Первые шаги
func (h *Handler) HandleWeek(ctx context.Context, chatID int64, now time.Time) {
	rep := h.service.GetCurrentWeekReport(ctx, now)

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 Неделя %s – %s\n\n", displayDate(rep.WeekStart), displayDate(rep.WeekEnd))

	for i, entry := range rep.Entries {
		fmt.Fprintf(&sb, "%s %s%s  ",
			weekdayNames[i],
			dayMark(entry.AfternoonCheckin, entry.AfternoonHadDrink),
			dayMark(entry.EveningCheckin, entry.EveningHadDrink))
	}
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Чисто: %d из %d ожидаемых · пропущено %d\n",
		rep.CleanCount, rep.ExpectedCount, rep.MissedCount)
	fmt.Fprintf(&sb, "Результат: %.0f%%\n", rep.Percentage)

	if rep.IsComplete {
		sb.WriteString("Неделя завершена ✅\n")
	}
	if rep.Reward != nil {
		fmt.Fprintf(&sb, "\n%s Награда: %s", rep.Reward.Icon, rep.Reward.Title)
	}

	h.sendMessage(chatID, sb.String())
}

// HandleMonth обрабатывает команду /month — отчёт за текущий месяц.
func (h *Handler) HandleMonth(ctx context.Context, chatID int64, now time.Time) {
	rep := h.service.GetCurrentMonthReport(ctx, now)

	var sb strings.Builder
	fmt.Fprintf(&sb, "🗓 %s %d\n\n", capitalize(common.MonthName(rep.Month)), rep.Year)

	for _, wk := range rep.Weeks {
		marker := "·"
		if wk.Reward != nil {
			marker = wk.Reward.Icon
		}
		fmt.Fprintf(&sb, "%s неделя с %s: %.0f%% (%d/%d)\n",
			marker, displayDate(wk.WeekStart), wk.Percentage, wk.CleanCount, wk.ExpectedCount)
	}

	fmt.Fprintf(&sb, "\nИтог месяца: %.0f%% · чисто %d из %d\n", rep.Percentage, rep.CleanCount, rep.ExpectedCount)
	if rep.BestWeek != nil {
		fmt.Fprintf(&sb, "Лучшая неделя: с %s (%.0f%%)\n", displayDate(rep.BestWeek.WeekStart), rep.BestWeek.Percentage)
	}
	fmt.Fprintf(&sb, "Тренд: %s", trendLabels[rep.Trend])

	h.sendMessage(chatID, sb.String())
}

// HandleToday обрабатывает команду /today — карточка сегодняшнего дня
// с состоянием обоих окон.
func (h *Handler) HandleToday(ctx context.Context, chatID int64, now time.Time) {
	entry, afternoon, evening := h.service.TodayOverview(now)
	w := h.service.WindowClocks()

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Сегодня, %s\n\n", displayDate(entry.Date))
	fmt.Fprintf(&sb, "☀️ День (%s–%s): %s\n",
		clockString(w.Afternoon.Open), clockString(w.Afternoon.Close),
		windowLine(afternoon, entry.AfternoonHadDrink))
	fmt.Fprintf(&sb, "🌙 Вечер (%s–%s): %s\n",
		clockString(w.Evening.Open), clockString(w.Evening.Close),
		windowLine(evening, entry.EveningHadDrink))

	if !entry.CheckedIn() {
		sb.WriteString("\nОтметиться: /checkin")
	}

	h.sendMessage(chatID, sb.String())
}

// windowLine — человекочитаемое состояние окна.
func windowLine(status WindowStatus, hadDrink bool) string {
	switch status {
	case WindowSatisfied:
		if hadDrink {
			return "отмечено, была газировка 🥤"
		}
		return "отмечено, чисто ✅"
	case WindowActive:
		return "открыто, жду отметку ⏳"
	case WindowMissed:
		return "пропущено —"
	default:
		return "ещё не открылось"
	}
}

// clockString форматирует время окна вида "15:00".
func clockString(c Clock) string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// capitalize делает первую букву заглавной ("июнь" → "Июнь").
func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

// dayMark — значок одного окна в недельной сетке.
func dayMark(checkedIn, hadDrink bool) string {
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

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
