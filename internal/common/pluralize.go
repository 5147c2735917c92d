// Package common — pluralize.go содержит вспомогательные функции
// для правильного склонения русских числительных в ответах бота.
package common

import (
	"fmt"
	"math"
	"time"
)

// pluralize выбирает форму слова по правилам русского языка:
//   - n%10==1 И n%100!=11 → one ("день": 1, 21, 31, 101, ...)
//   - n%10 в [2,4] И n%100 НЕ в [12,14] → few ("дня": 2, 3, 4, 22, ...)
//   - остальные случаи → many ("дней": 0, 5-20, 25-30, ...)
func pluralize(n int, one, few, many string) string {
	absN := int(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}
	return many
}

// PluralizeDays возвращает правильную форму слова «день».
//
// Примеры:
//
//	PluralizeDays(1)  → "день"
//	PluralizeDays(3)  → "дня"
//	PluralizeDays(11) → "дней"
//	PluralizeDays(21) → "день"
func PluralizeDays(n int) string {
	return pluralize(n, "день", "дня", "дней")
}

// PluralizeWeeks возвращает правильную форму слова «неделя».
func PluralizeWeeks(n int) string {
	return pluralize(n, "неделя", "недели", "недель")
}

// PluralizeCheckins возвращает правильную форму слова «отметка»
// (отметка = один чек-ин).
func PluralizeCheckins(n int) string {
	return pluralize(n, "отметка", "отметки", "отметок")
}

// FormatDays создаёт строку вида "5 дней".
func FormatDays(n int) string {
	return fmt.Sprintf("%d %s", n, PluralizeDays(n))
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04".
// Используется для отображения дат разблокировки наград.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02.01.2006 15:04")
}
