package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fizzytracker.ru/tracker-bot/internal/common"
	"fizzytracker.ru/tracker-bot/internal/features/tracker"
)

// sunday 2025-06-01 — воскресенье, удобная опорная неделя
var sunday = time.Date(2025, time.June, 1, 0, 0, 0, 0, msk)

func entry(date string, aCheck, aDrink, eCheck, eDrink bool) tracker.DayEntry {
	return tracker.DayEntry{
		Date:              date,
		AfternoonCheckin:  aCheck,
		AfternoonHadDrink: aDrink,
		EveningCheckin:    eCheck,
		EveningHadDrink:   eDrink,
	}
}

func key(offset int) string {
	return common.FormatDate(sunday.AddDate(0, 0, offset))
}

func TestBuildWeekReport_FutureWeek(t *testing.T) {
	now := time.Date(2025, time.May, 20, 12, 0, 0, 0, msk)
	entries := []tracker.DayEntry{entry("2025-05-19", true, false, false, false)}

	rep := BuildWeekReport(sunday, entries, now, DefaultWindows())

	require.Len(t, rep.Entries, 7, "будущая неделя всё равно несёт 7 пустых записей")
	for _, e := range rep.Entries {
		assert.False(t, e.CheckedIn())
	}
	assert.Zero(t, rep.ExpectedCount)
	assert.Zero(t, rep.CleanCount)
	assert.Zero(t, rep.MissedCount)
	assert.Zero(t, rep.Percentage)
	assert.False(t, rep.IsComplete)
}

func TestBuildWeekReport_OpenWindowsAreNotExpected(t *testing.T) {
	// Сегодня воскресенье, дневной чек-ин уже сделан в 14:00 —
	// до открытия окна. Ни одно окно сегодня ещё не закрылось.
	now := sunday.Add(14 * time.Hour)
	entries := []tracker.DayEntry{entry(key(0), true, false, false, false)}

	rep := BuildWeekReport(sunday, entries, now, DefaultWindows())

	assert.Zero(t, rep.ExpectedCount, "незакрывшиеся окна не попадают в ожидаемые")
	assert.Zero(t, rep.MissedCount)
	assert.Equal(t, 1, rep.CompletedCount)
	assert.Equal(t, 1, rep.CleanCount)
	assert.Zero(t, rep.Percentage, "процент равен 0 при нуле ожидаемых окон")
	assert.False(t, rep.IsComplete)
}

func TestBuildWeekReport_DaysBeforeFirstEntryAreInvisible(t *testing.T) {
	// Первая запись — вторник. Воскресенье и понедельник той же недели
	// не считаются пропущенными: трекинг ещё не начался.
	now := sunday.AddDate(0, 0, 2).Add(17 * time.Hour) // вторник 17:00
	entries := []tracker.DayEntry{entry(key(2), true, false, false, false)}

	rep := BuildWeekReport(sunday, entries, now, DefaultWindows())

	// Ожидаемое только одно: дневное окно вторника (закрылось в 16:00)
	assert.Equal(t, 1, rep.ExpectedCount)
	assert.Zero(t, rep.MissedCount)
	assert.Equal(t, 1, rep.CleanCount)
	assert.InDelta(t, 100.0, rep.Percentage, 0.001)
}

func TestBuildWeekReport_SeventyPercentWeek(t *testing.T) {
	// Первая запись — вторник: ожидаемых окон за неделю 10 (5 дней × 2).
	// Чистых чек-инов 7, пропущено 3.
	entries := []tracker.DayEntry{
		entry(key(2), true, false, true, false), // вт: 2 чистых
		entry(key(3), true, false, true, false), // ср: 2 чистых
		entry(key(4), true, false, true, false), // чт: 2 чистых
		entry(key(5), true, false, false, false), // пт: день чистый, вечер пропущен
		// сб: обе отметки пропущены
	}
	now := sunday.AddDate(0, 0, 8) // понедельник следующей недели

	rep := BuildWeekReport(sunday, entries, now, DefaultWindows())

	assert.Equal(t, 10, rep.ExpectedCount)
	assert.Equal(t, 7, rep.CleanCount)
	assert.Equal(t, 7, rep.CompletedCount)
	assert.Equal(t, 3, rep.MissedCount)
	assert.InDelta(t, 70.0, rep.Percentage, 0.001)
	assert.True(t, rep.IsComplete)
}

func TestBuildWeekReport_DrinksLowerCleanNotCompleted(t *testing.T) {
	entries := []tracker.DayEntry{
		entry(key(0), true, true, true, false), // вс: день с газировкой, вечер чистый
	}
	now := sunday.AddDate(0, 0, 1) // понедельник 00:00, оба окна вс закрыты

	rep := BuildWeekReport(sunday, entries, now, DefaultWindows())

	assert.Equal(t, 2, rep.ExpectedCount)
	assert.Equal(t, 2, rep.CompletedCount)
	assert.Equal(t, 1, rep.CleanCount, "чек-ин с газировкой не чистый")
	assert.Zero(t, rep.MissedCount)
	assert.InDelta(t, 50.0, rep.Percentage, 0.001)
}

func TestBuildWeekReport_PercentageClamped(t *testing.T) {
	// Вчера оба окна чистые (ожидаемых 2), сегодня чистый чек-ин до
	// закрытия окна: чистых 3 при двух ожидаемых → прижимаем к 100
	entries := []tracker.DayEntry{
		entry(key(0), true, false, true, false),
		entry(key(1), true, false, false, false),
	}
	now := sunday.AddDate(0, 0, 1).Add(14 * time.Hour) // понедельник 14:00

	rep := BuildWeekReport(sunday, entries, now, DefaultWindows())

	assert.Equal(t, 2, rep.ExpectedCount)
	assert.Equal(t, 3, rep.CleanCount)
	assert.InDelta(t, 100.0, rep.Percentage, 0.001)
	assert.LessOrEqual(t, rep.Percentage, 100.0)
	assert.GreaterOrEqual(t, rep.Percentage, 0.0)
}

func TestBuildWeekReport_NormalizesWeekStart(t *testing.T) {
	// Передали среду — отчёт всё равно за неделю её воскресенья
	wednesday := sunday.AddDate(0, 0, 3)
	rep := BuildWeekReport(wednesday, nil, sunday.AddDate(0, 0, 10), DefaultWindows())

	assert.Equal(t, "2025-06-01", rep.WeekStart)
	assert.Equal(t, "2025-06-07", rep.WeekEnd)
	assert.True(t, rep.IsComplete)
	assert.Zero(t, rep.ExpectedCount, "пустая история — ожидаемых окон нет")
}

func TestBuildWeekReport_EmptyHistory(t *testing.T) {
	now := sunday.AddDate(0, 0, 3)
	rep := BuildWeekReport(sunday, nil, now, DefaultWindows())

	require.Len(t, rep.Entries, 7)
	assert.Zero(t, rep.ExpectedCount)
	assert.Zero(t, rep.Percentage)
}
