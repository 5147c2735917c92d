// Package report строит недельные и месячные отчёты по истории чек-инов.
// windows.go — модель окон: когда окно чек-ина считается ожидаемым.
package report

import "time"

// WindowStatus — состояние окна чек-ина для конкретной пары (дата, сейчас).
// Закрытое перечисление: никаких «any»-статусов, каждый потребитель
// (агрегация, рендеринг) работает с одними и теми же четырьмя значениями.
type WindowStatus int

const (
	// WindowPending — окно ещё не открылось
	WindowPending WindowStatus = iota
	// WindowActive — окно открыто, чек-ин ещё принимается
	WindowActive
	// WindowMissed — окно закрылось без чек-ина
	WindowMissed
	// WindowSatisfied — чек-ин отправлен
	WindowSatisfied
)

// String — для логов и отладки.
func (s WindowStatus) String() string {
	switch s {
	case WindowPending:
		return "pending"
	case WindowActive:
		return "active"
	case WindowMissed:
		return "missed"
	case WindowSatisfied:
		return "satisfied"
	default:
		return "unknown"
	}
}

// Clock — время суток без даты (часы и минуты).
type Clock struct {
	Hour   int
	Minute int
}

// At привязывает время суток к дню даты date в её часовом поясе.
func (c Clock) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

// Window — именованное окно чек-ина: открытие и закрытие (конец грейса).
type Window struct {
	Open  Clock
	Close Clock
}

// Expected сообщает, стало ли окно «ожидаемым» для даты date:
// now строго позже момента закрытия. Это ЕДИНСТВЕННЫЙ критерий,
// по которому окно попадает в знаменатель процента — будущие и ещё
// открытые окна не занижают результат недели.
func (w Window) Expected(date, now time.Time) bool {
	return now.After(w.Close.At(date))
}

// Status вычисляет состояние окна для даты date на момент now.
func (w Window) Status(date, now time.Time, checkedIn bool) WindowStatus {
	switch {
	case checkedIn:
		return WindowSatisfied
	case now.Before(w.Open.At(date)):
		return WindowPending
	case !w.Expected(date, now):
		return WindowActive
	default:
		return WindowMissed
	}
}

// Windows — оба дневных окна чек-ина.
type Windows struct {
	Afternoon Window
	Evening   Window
}

// DefaultWindows — штатное расписание: дневное окно 15:00–16:00,
// вечернее 20:45–21:45.
func DefaultWindows() Windows {
	return Windows{
		Afternoon: Window{Open: Clock{15, 0}, Close: Clock{16, 0}},
		Evening:   Window{Open: Clock{20, 45}, Close: Clock{21, 45}},
	}
}
