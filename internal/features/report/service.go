// Package report — service.go связывает чистую агрегацию с I/O:
// берёт снимок истории, строит отчёт и дёргает оценку награды
// для завершённых удачных недель.
package report

import (
	"context"
	"time"

	"fizzytracker.ru/tracker-bot/internal/common"
	"fizzytracker.ru/tracker-bot/internal/features/reward"
	"fizzytracker.ru/tracker-bot/internal/features/tracker"
)

// Service строит отчёты по актуальной истории.
type Service struct {
	tracker   *tracker.Service
	rewards   *reward.Service
	windows   Windows
	threshold float64 // минимальный процент завершённой недели для награды
	loc       *time.Location
}

// NewService создаёт новый отчётный сервис.
func NewService(trackerService *tracker.Service, rewardService *reward.Service, windows Windows, threshold float64, loc *time.Location) *Service {
	return &Service{
		tracker:   trackerService,
		rewards:   rewardService,
		windows:   windows,
		threshold: threshold,
		loc:       loc,
	}
}

// GetWeekReport строит отчёт за неделю, начинающуюся с weekStart.
// Завершённая неделя с процентом не ниже порога запускает оценку
// награды; существующая награда недели прикладывается к отчёту.
// Ошибки наградного хранилища не мешают вернуть отчёт.
func (s *Service) GetWeekReport(ctx context.Context, weekStart time.Time, now time.Time) WeekReport {
	rep := BuildWeekReport(weekStart, s.tracker.Entries(), now, s.windows)

	if rep.IsComplete && rep.Percentage >= s.threshold {
		if firstEntry, ok := s.tracker.FirstEntryDate(s.loc); ok {
			ws, err := common.ParseDate(rep.WeekStart, s.loc)
			if err == nil {
				s.rewards.Evaluate(ctx, ws, firstEntry, now)
			}
		}
	}

	rep.Reward = s.rewards.Find(ctx, rep.WeekStart)
	return rep
}

// GetCurrentWeekReport — отчёт за текущую неделю.
func (s *Service) GetCurrentWeekReport(ctx context.Context, now time.Time) WeekReport {
	return s.GetWeekReport(ctx, common.WeekStart(now), now)
}

// GetMonthReport строит месячный отчёт. Недели считаются через
// GetWeekReport, чтобы завершённые удачные недели месяца тоже
// разблокировали свои награды.
func (s *Service) GetMonthReport(ctx context.Context, year int, month time.Month, now time.Time) MonthReport {
	weekStarts := common.WeeksInMonth(year, month, s.loc)
	weeks := make([]WeekReport, 0, len(weekStarts))
	for _, ws := range weekStarts {
		weeks = append(weeks, s.GetWeekReport(ctx, ws, now))
	}
	return AssembleMonthReport(year, month, weeks)
}

// GetCurrentMonthReport — отчёт за текущий месяц.
func (s *Service) GetCurrentMonthReport(ctx context.Context, now time.Time) MonthReport {
	return s.GetMonthReport(ctx, now.Year(), now.Month(), now)
}

// TodayOverview возвращает сегодняшнюю запись и состояния обоих окон.
// Используется карточкой /today.
func (s *Service) TodayOverview(now time.Time) (tracker.DayEntry, WindowStatus, WindowStatus) {
	entry, ok := s.tracker.GetTodayEntry(now)
	if !ok {
		entry = tracker.BlankEntry(common.Today(now))
	}
	day := common.Midnight(now)
	afternoon := s.windows.Afternoon.Status(day, now, entry.AfternoonCheckin)
	evening := s.windows.Evening.Status(day, now, entry.EveningCheckin)
	return entry, afternoon, evening
}

// WindowClocks отдаёт расписание окон для подсказок в ответах бота.
func (s *Service) WindowClocks() Windows {
	return s.windows
}
