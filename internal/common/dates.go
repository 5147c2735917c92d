// Package common содержит общие утилиты, используемые во всём проекте.
// dates.go — календарная арифметика: границы недель и месяцев,
// перечисление дней, канонический формат даты.
//
// ВАЖНО: везде используется ЛОКАЛЬНАЯ календарная дата (часовой пояс
// берётся из переданного времени). UTC не используется нигде, иначе
// возле полуночи ключ дня «уезжает» на сутки относительно сравнений
// окон чек-ина.
package common

import (
	"math"
	"time"
)

// DateLayout — канонический формат ключа дня: "2006-01-02" (YYYY-MM-DD).
// Этот формат — идентичность записи дня во всей системе (и в БД).
const DateLayout = "2006-01-02"

// FormatDate форматирует дату в канонический ключ "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate разбирает ключ "YYYY-MM-DD" в полночь указанного пояса.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// Today возвращает ключ сегодняшнего дня для переданного «сейчас».
func Today(now time.Time) string {
	return FormatDate(now)
}

// Midnight обрезает время до полуночи того же дня в том же поясе.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart возвращает воскресенье той недели, в которую попадает date,
// нормализованное к полуночи. Неделя считается с воскресенья —
// так устроены недельные отчёты и награды.
//
// Свойства (проверяются тестами):
//   - WeekStart(WeekStart(d)) == WeekStart(d)  (идемпотентность)
//   - WeekStart(d) <= d
func WeekStart(date time.Time) time.Time {
	d := Midnight(date)
	// time.Weekday: Sunday == 0, поэтому просто отнимаем номер дня недели
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekEnd возвращает субботу той же недели (WeekStart + 6 дней), полночь.
func WeekEnd(date time.Time) time.Time {
	return WeekStart(date).AddDate(0, 0, 6)
}

// DaysInWeek возвращает 7 последовательных дней недели начиная с weekStart.
func DaysInWeek(weekStart time.Time) []time.Time {
	days := make([]time.Time, 7)
	for i := 0; i < 7; i++ {
		days[i] = weekStart.AddDate(0, 0, i)
	}
	return days
}

// WeeksInMonth возвращает начала всех недель, пересекающихся с месяцем:
// от недели, содержащей 1-е число, до недели, содержащей последний день.
// Результат отсортирован по возрастанию.
func WeeksInMonth(year int, month time.Month, loc *time.Location) []time.Time {
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	lastDay := firstDay.AddDate(0, 1, -1)

	var weeks []time.Time
	for ws := WeekStart(firstDay); !ws.After(lastDay); ws = ws.AddDate(0, 0, 7) {
		weeks = append(weeks, ws)
	}
	return weeks
}

// DaysBetween возвращает количество календарных дней от a до b (b - a).
// Обе даты нормализуются к полуночи; округление гасит сдвиги
// при переходе на летнее/зимнее время (23/25-часовые дни).
func DaysBetween(a, b time.Time) int {
	hours := Midnight(b).Sub(Midnight(a)).Hours()
	return int(math.Round(hours / 24))
}

// ParseClock разбирает время вида "15:04" в часы и минуты.
// Используется для настроек окон чек-ина и расписания напоминаний.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

// monthNames — русские названия месяцев для отчётов.
var monthNames = [...]string{
	"январь", "февраль", "март", "апрель", "май", "июнь",
	"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь",
}

// MonthName возвращает русское название месяца.
func MonthName(month time.Month) string {
	return monthNames[month-1]
}
