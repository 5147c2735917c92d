// Package streak управляет подсчётом серий «чистых» дней.
// calculator.go — чистая функция над историей: ни состояния, ни I/O.
package streak

import (
	"time"

	"fizzytracker.ru/tracker-bot/internal/common"
	"fizzytracker.ru/tracker-bot/internal/features/tracker"
)

// maxLookbackDays — глубина обратного обхода при подсчёте текущей серии.
// Пять лет назад смотреть достаточно: раньше первой записи серия
// всё равно оборвётся.
const maxLookbackDays = 365 * 5

// Calculate считает текущую и рекордную серию чистых дней.
// История может приходить в любом порядке. Правило чистого дня:
// есть хотя бы один чек-ин и ни в одном отмеченном окне не было газировки.
//
// Рекорд: проход день за днём от самой первой записи до сегодня.
// День без записи или день с газировкой обрывает серию. После цикла —
// финальная проверка: серия могла закончиться ровно сегодня.
//
// Текущая серия: обратный проход от сегодняшнего дня. Отсутствие
// чек-ина СЕГОДНЯ серию не рвёт (окна ещё могут быть открыты), но
// записанная сегодня газировка рвёт сразу.
func Calculate(entries []tracker.DayEntry, now time.Time) (current, longest int) {
	if len(entries) == 0 {
		return 0, 0
	}

	byDate := make(map[string]tracker.DayEntry, len(entries))
	firstKey := entries[0].Date
	for _, e := range entries {
		byDate[e.Date] = e
		if e.Date < firstKey {
			firstKey = e.Date
		}
	}

	loc := now.Location()
	today := common.Midnight(now)
	todayKey := common.FormatDate(today)

	// --- Рекордная серия ---
	firstDate, err := common.ParseDate(firstKey, loc)
	if err == nil {
		run := 0
		for d := firstDate; !d.After(today); d = d.AddDate(0, 0, 1) {
			if e, ok := byDate[common.FormatDate(d)]; ok && e.CleanDay() {
				run++
				continue
			}
			if run > longest {
				longest = run
			}
			run = 0
		}
		// Серия могла дойти до самого последнего дня цикла
		if run > longest {
			longest = run
		}
	}

	// --- Текущая серия ---
	check := today
	for i := 0; i < maxLookbackDays; i++ {
		key := common.FormatDate(check)
		e, ok := byDate[key]

		if ok && e.CleanDay() {
			current++
		} else {
			// Серия обрывается, если день не сегодняшний,
			// либо если сегодня уже записана газировка.
			if key != todayKey || (ok && e.HadDrink()) {
				break
			}
		}
		check = check.AddDate(0, 0, -1)
	}

	return current, longest
}
