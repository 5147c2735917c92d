// Package tracker управляет записями ежедневных чек-инов.
// models.go описывает запись дня — базовую сущность всей системы.
package tracker

import "time"

// Period — окно чек-ина: дневное или вечернее.
type Period string

const (
	// PeriodAfternoon — дневное окно (открывается в 15:00)
	PeriodAfternoon Period = "afternoon"
	// PeriodEvening — вечернее окно (открывается в 20:45)
	PeriodEvening Period = "evening"
)

// DayEntry — запись одного календарного дня.
// Идентичность записи — поле Date в формате "YYYY-MM-DD",
// в базе на него стоит UNIQUE. Поля *HadDrink имеют смысл только
// когда соответствующий флаг *Checkin равен true: окно без чек-ина —
// это не «чисто» и не «сорвался», а «ещё не закрыто» или «пропущено».
type DayEntry struct {
	ID                int64     `json:"-"`
	Date              string    `json:"date"`
	AfternoonCheckin  bool      `json:"afternoon_checkin"`
	EveningCheckin    bool      `json:"evening_checkin"`
	AfternoonHadDrink bool      `json:"afternoon_had_drink"`
	EveningHadDrink   bool      `json:"evening_had_drink"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

// BlankEntry возвращает пустую запись для даты: чек-инов не было.
// Отсутствующая в истории дата везде трактуется как такая запись,
// а не как ошибка.
func BlankEntry(date string) DayEntry {
	return DayEntry{Date: date}
}

// CheckedIn сообщает, был ли хотя бы один чек-ин за день.
func (e DayEntry) CheckedIn() bool {
	return e.AfternoonCheckin || e.EveningCheckin
}

// HadDrink сообщает, была ли газировка хотя бы в одном из отмеченных окон.
func (e DayEntry) HadDrink() bool {
	return e.AfternoonHadDrink || e.EveningHadDrink
}

// CleanDay — «чистый» день: есть хотя бы один чек-ин и ни в одном
// из отмеченных окон не было газировки. Именно это правило
// используется при подсчёте стриков.
func (e DayEntry) CleanDay() bool {
	return e.CheckedIn() && !e.HadDrink()
}

// WithCheckin возвращает копию записи с применённым чек-ином окна.
// Повторный чек-ин того же окна просто перезаписывает флаги —
// upsert, а не накопление.
func (e DayEntry) WithCheckin(period Period, hadDrink bool) DayEntry {
	switch period {
	case PeriodAfternoon:
		e.AfternoonCheckin = true
		e.AfternoonHadDrink = hadDrink
	case PeriodEvening:
		e.EveningCheckin = true
		e.EveningHadDrink = hadDrink
	}
	return e
}
