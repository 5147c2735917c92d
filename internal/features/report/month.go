// Package report — month.go складывает недельные отчёты в месячный
// и классифицирует тренд.
package report

import (
	"math"
	"time"

	"fizzytracker.ru/tracker-bot/internal/common"
	"fizzytracker.ru/tracker-bot/internal/features/tracker"
)

// Trend — направление динамики месяца.
type Trend string

const (
	TrendImproving Trend = "Improving"
	TrendDeclining Trend = "Declining"
	TrendSteady    Trend = "Steady"
	TrendNA        Trend = "N/A"
)

// trendThreshold — минимальная разница средних процентов половин месяца,
// чтобы считать динамику ростом или спадом.
const trendThreshold = 5.0

// MonthReport — производный отчёт за месяц.
type MonthReport struct {
	Month time.Month
	Year  int

	CleanCount     int
	CompletedCount int
	MissedCount    int
	ExpectedCount  int
	Percentage     float64

	Weeks    []WeekReport
	BestWeek *WeekReport // неделя с максимальным процентом; nil, если ни у одной нет ожидаемых окон
	Trend    Trend
}

// BuildMonthReport строит месячный отчёт с нуля: перечисляет недели,
// пересекающиеся с месяцем, считает каждую и складывает. Недели
// независимы, порядок расчёта на результат не влияет.
func BuildMonthReport(year int, month time.Month, entries []tracker.DayEntry, now time.Time, w Windows) MonthReport {
	weekStarts := common.WeeksInMonth(year, month, now.Location())
	weeks := make([]WeekReport, 0, len(weekStarts))
	for _, ws := range weekStarts {
		weeks = append(weeks, BuildWeekReport(ws, entries, now, w))
	}
	return AssembleMonthReport(year, month, weeks)
}

// AssembleMonthReport складывает уже посчитанные недельные отчёты.
// Вынесено отдельно: отчётный сервис считает недели сам (с наградами)
// и затем собирает месяц той же функцией, что и чистый Build.
func AssembleMonthReport(year int, month time.Month, weeks []WeekReport) MonthReport {
	rep := MonthReport{
		Month: month,
		Year:  year,
		Weeks: weeks,
		Trend: TrendNA,
	}

	for _, wk := range weeks {
		rep.CleanCount += wk.CleanCount
		rep.CompletedCount += wk.CompletedCount
		rep.MissedCount += wk.MissedCount
		rep.ExpectedCount += wk.ExpectedCount
	}
	rep.Percentage = percentage(rep.CleanCount, rep.ExpectedCount)

	// Лучшая неделя и тренд считаются только по неделям, у которых
	// было хоть одно ожидаемое окно: пустые недели не «лучшие» и
	// не портят динамику.
	var qualifying []int
	for i := range weeks {
		if weeks[i].ExpectedCount > 0 {
			qualifying = append(qualifying, i)
		}
	}

	for _, i := range qualifying {
		if rep.BestWeek == nil || weeks[i].Percentage > rep.BestWeek.Percentage {
			rep.BestWeek = &rep.Weeks[i]
		}
	}

	rep.Trend = classifyTrend(weeks, qualifying)
	return rep
}

// classifyTrend сравнивает средний процент первой половины
// квалифицировавшихся недель со второй.
//
// Правила:
//   - меньше двух недель с ожидаемыми окнами → N/A;
//   - первая половина — ceil(n/2) недель, вторая — остаток;
//   - вторая выше первой более чем на 5 пунктов → Improving,
//     ниже более чем на 5 → Declining, иначе Steady.
//
// При нечётном n во второй половине может оказаться одна неделя —
// тогда её процент сравнивается со средним первой половины, это
// определённое поведение, а не ошибка.
func classifyTrend(weeks []WeekReport, qualifying []int) Trend {
	if len(qualifying) < 2 {
		return TrendNA
	}

	half := int(math.Ceil(float64(len(qualifying)) / 2))
	firstAvg := averagePercentage(weeks, qualifying[:half])
	secondAvg := averagePercentage(weeks, qualifying[half:])

	switch {
	case secondAvg > firstAvg+trendThreshold:
		return TrendImproving
	case secondAvg < firstAvg-trendThreshold:
		return TrendDeclining
	default:
		return TrendSteady
	}
}

// averagePercentage — средний процент по выбранным индексам недель.
func averagePercentage(weeks []WeekReport, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += weeks[i].Percentage
	}
	return sum / float64(len(idx))
}
