package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fizzytracker.ru/tracker-bot/internal/common"
	"fizzytracker.ru/tracker-bot/internal/features/tracker"
)

// weekWith — синтетический недельный отчёт для тестов сборки месяца.
func weekWith(weekStart string, pct float64, expected, clean int) WeekReport {
	return WeekReport{
		WeekStart:     weekStart,
		Percentage:    pct,
		ExpectedCount: expected,
		CleanCount:    clean,
	}
}

func TestAssembleMonthReport_TrendImproving(t *testing.T) {
	// Три квалифицировавшихся недели 40/90/95:
	// первая половина — [40, 90] (среднее 65), вторая — [95] → +30 → рост
	weeks := []WeekReport{
		weekWith("2025-06-01", 40, 10, 4),
		weekWith("2025-06-08", 90, 10, 9),
		weekWith("2025-06-15", 95, 10, 9),
	}
	rep := AssembleMonthReport(2025, time.June, weeks)

	assert.Equal(t, TrendImproving, rep.Trend)
}

func TestAssembleMonthReport_TrendDeclining(t *testing.T) {
	weeks := []WeekReport{
		weekWith("2025-06-01", 95, 10, 9),
		weekWith("2025-06-08", 90, 10, 9),
		weekWith("2025-06-15", 40, 10, 4),
	}
	rep := AssembleMonthReport(2025, time.June, weeks)

	assert.Equal(t, TrendDeclining, rep.Trend)
}

func TestAssembleMonthReport_TrendSteady(t *testing.T) {
	weeks := []WeekReport{
		weekWith("2025-06-01", 80, 10, 8),
		weekWith("2025-06-08", 82, 10, 8),
	}
	rep := AssembleMonthReport(2025, time.June, weeks)

	assert.Equal(t, TrendSteady, rep.Trend, "разница в пределах 5 пунктов — стабильно")
}

func TestAssembleMonthReport_TrendNeedsTwoQualifyingWeeks(t *testing.T) {
	// Недели без ожидаемых окон в тренде не участвуют
	weeks := []WeekReport{
		weekWith("2025-06-01", 0, 0, 0),
		weekWith("2025-06-08", 90, 10, 9),
		weekWith("2025-06-15", 0, 0, 0),
	}
	rep := AssembleMonthReport(2025, time.June, weeks)

	assert.Equal(t, TrendNA, rep.Trend)
}

func TestAssembleMonthReport_BestWeek(t *testing.T) {
	weeks := []WeekReport{
		weekWith("2025-06-01", 0, 0, 0), // не квалифицируется: нет ожидаемых
		weekWith("2025-06-08", 60, 10, 6),
		weekWith("2025-06-15", 85, 10, 8),
		weekWith("2025-06-22", 85, 10, 8), // при равенстве побеждает более ранняя
	}
	rep := AssembleMonthReport(2025, time.June, weeks)

	require.NotNil(t, rep.BestWeek)
	assert.Equal(t, "2025-06-15", rep.BestWeek.WeekStart)
}

func TestAssembleMonthReport_BestWeekNilWithoutExpected(t *testing.T) {
	weeks := []WeekReport{
		weekWith("2025-06-01", 0, 0, 0),
		weekWith("2025-06-08", 0, 0, 0),
	}
	rep := AssembleMonthReport(2025, time.June, weeks)

	assert.Nil(t, rep.BestWeek)
	assert.Equal(t, TrendNA, rep.Trend)
	assert.Zero(t, rep.Percentage)
}

func TestAssembleMonthReport_Sums(t *testing.T) {
	weeks := []WeekReport{
		{WeekStart: "2025-06-01", CleanCount: 5, CompletedCount: 6, MissedCount: 4, ExpectedCount: 10, Percentage: 50},
		{WeekStart: "2025-06-08", CleanCount: 9, CompletedCount: 9, MissedCount: 1, ExpectedCount: 10, Percentage: 90},
	}
	rep := AssembleMonthReport(2025, time.June, weeks)

	assert.Equal(t, 14, rep.CleanCount)
	assert.Equal(t, 15, rep.CompletedCount)
	assert.Equal(t, 5, rep.MissedCount)
	assert.Equal(t, 20, rep.ExpectedCount)
	assert.InDelta(t, 70.0, rep.Percentage, 0.001, "процент месяца — по суммарным ожидаемым")
}

func TestBuildMonthReport_Integration(t *testing.T) {
	// Полный июнь 2025 одной историей: все дни чистые
	var entries []tracker.DayEntry
	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, msk)
	for i := 0; i < 30; i++ {
		entries = append(entries, entry(common.FormatDate(start.AddDate(0, 0, i)), true, false, true, false))
	}
	// Ночь 1 июля: все июньские окна закрылись, июльские ещё не ожидаемые
	now := time.Date(2025, time.July, 1, 0, 30, 0, 0, msk)

	rep := BuildMonthReport(2025, time.June, entries, now, DefaultWindows())

	assert.Equal(t, time.June, rep.Month)
	assert.Equal(t, 2025, rep.Year)
	// Недели, пересекающие месяц: с 1, 8, 15, 22 и 29 июня
	require.Len(t, rep.Weeks, 5)
	assert.Equal(t, "2025-06-01", rep.Weeks[0].WeekStart)
	assert.Equal(t, "2025-06-29", rep.Weeks[4].WeekStart)

	// Все окна всех отслеживаемых дней чистые
	assert.Equal(t, rep.ExpectedCount, rep.CleanCount)
	assert.InDelta(t, 100.0, rep.Percentage, 0.001)
	require.NotNil(t, rep.BestWeek)
	assert.Equal(t, TrendSteady, rep.Trend)

	// Процент всегда в границах
	assert.GreaterOrEqual(t, rep.Percentage, 0.0)
	assert.LessOrEqual(t, rep.Percentage, 100.0)
}
