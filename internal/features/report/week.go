// Package report — week.go собирает отчёт за одну неделю.
// Чистая функция над историей: отчёт пересчитывается на каждый запрос
// и нигде не хранится.
package report

import (
	"time"

	"fizzytracker.ru/tracker-bot/internal/common"
	"fizzytracker.ru/tracker-bot/internal/features/reward"
	"fizzytracker.ru/tracker-bot/internal/features/tracker"
)

// WeekReport — производный отчёт за неделю (воскресенье — суббота).
type WeekReport struct {
	WeekStart string // "YYYY-MM-DD", воскресенье
	WeekEnd   string // "YYYY-MM-DD", суббота
	// Entries — ровно 7 записей по дням недели; для дат без истории
	// подставляются пустые записи
	Entries []tracker.DayEntry

	CleanCount     int // чистых чек-инов (отметка есть, газировки не было)
	CompletedCount int // всего отправленных чек-инов
	MissedCount    int // ожидаемых окон без чек-ина
	ExpectedCount  int // закрывшихся (ожидаемых) окон

	// Percentage = 100 * CleanCount / ExpectedCount, в границах [0,100];
	// 0 при ExpectedCount == 0
	Percentage float64
	// IsComplete — неделя закончилась (now позже её последнего дня)
	IsComplete bool

	Reward *reward.WeeklyReward
}

// BuildWeekReport строит отчёт за неделю, начинающуюся с weekStart.
// entries — вся история (порядок не важен), now — момент запроса.
//
// Правила подсчёта:
//   - будущая неделя (начало строго позже сегодняшнего дня) — нулевой
//     отчёт с семью пустыми записями, логика ожиданий не запускается;
//   - дни строго раньше самой первой записи в истории невидимы для
//     процента: до начала трекинга окна не считаются пропущенными;
//   - окно попадает в ExpectedCount только после своего закрытия.
func BuildWeekReport(weekStart time.Time, entries []tracker.DayEntry, now time.Time, w Windows) WeekReport {
	ws := common.WeekStart(weekStart)
	we := common.WeekEnd(ws)

	byDate := make(map[string]tracker.DayEntry, len(entries))
	firstKey := ""
	for _, e := range entries {
		byDate[e.Date] = e
		if firstKey == "" || e.Date < firstKey {
			firstKey = e.Date
		}
	}

	rep := WeekReport{
		WeekStart: common.FormatDate(ws),
		WeekEnd:   common.FormatDate(we),
		Entries:   make([]tracker.DayEntry, 0, 7),
	}

	days := common.DaysInWeek(ws)
	for _, day := range days {
		key := common.FormatDate(day)
		entry, ok := byDate[key]
		if !ok {
			entry = tracker.BlankEntry(key)
		}
		rep.Entries = append(rep.Entries, entry)
	}

	// Неделя ещё не началась — нечего ожидать и нечего считать
	if ws.After(common.Midnight(now)) {
		return rep
	}

	for i, day := range days {
		entry := rep.Entries[i]

		// Дни до первой записи не участвуют в подсчёте
		if firstKey == "" || entry.Date < firstKey {
			continue
		}

		countWindow(&rep, w.Afternoon, day, now, entry.AfternoonCheckin, entry.AfternoonHadDrink)
		countWindow(&rep, w.Evening, day, now, entry.EveningCheckin, entry.EveningHadDrink)
	}

	rep.Percentage = percentage(rep.CleanCount, rep.ExpectedCount)
	rep.IsComplete = now.After(we)
	return rep
}

// countWindow учитывает одно окно одного дня в счётчиках отчёта.
func countWindow(rep *WeekReport, w Window, day, now time.Time, checkedIn, hadDrink bool) {
	expected := w.Expected(day, now)
	if expected {
		rep.ExpectedCount++
	}
	if checkedIn {
		rep.CompletedCount++
		if !hadDrink {
			rep.CleanCount++
		}
	} else if expected {
		rep.MissedCount++
	}
}

// percentage — 100*clean/expected, прижатый к [0,100].
// Чистый чек-ин в ещё не закрывшемся окне может на мгновение дать
// больше 100% — прижимаем, знаменатель догонит после закрытия окна.
func percentage(clean, expected int) float64 {
	if expected == 0 {
		return 0
	}
	p := 100 * float64(clean) / float64(expected)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
