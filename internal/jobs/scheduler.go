// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: напоминания в моменты открытия
// окон чек-ина и недельная сводка по воскресеньям.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"fizzytracker.ru/tracker-bot/internal/common"
	"fizzytracker.ru/tracker-bot/internal/features/report"
	"fizzytracker.ru/tracker-bot/internal/features/tracker"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	tracker  *tracker.Service
	reports  *report.Service
	sendFunc func(chatID int64, text string)
	ownerID  int64
	loc      *time.Location

	mu      sync.Mutex
	enabled bool
}

// NewScheduler создаёт планировщик задач в часовом поясе приложения.
func NewScheduler(
	trackerService *tracker.Service,
	reportService *report.Service,
	sendFunc func(chatID int64, text string),
	ownerID int64,
	loc *time.Location,
	remindersEnabled bool,
) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		tracker:  trackerService,
		reports:  reportService,
		sendFunc: sendFunc,
		ownerID:  ownerID,
		loc:      loc,
		enabled:  remindersEnabled,
	}
}

// Start запускает все фоновые задачи.
// Напоминания привязаны к моментам открытия окон из конфигурации.
func (s *Scheduler) Start(ctx context.Context) {
	w := s.reports.WindowClocks()

	s.addReminder(ctx, w.Afternoon.Open, tracker.PeriodAfternoon,
		"☀️ Дневное окно открылось! Как дела с газировкой? /checkin")
	s.addReminder(ctx, w.Evening.Open, tracker.PeriodEvening,
		"🌙 Вечернее окно открылось! Отметь, как прошёл вечер: /checkin")

	// Недельная сводка утром в воскресенье — за только что завершённую неделю
	if _, err := s.cron.AddFunc("0 9 * * 0", func() {
		s.sendWeeklySummary(ctx)
	}); err != nil {
		log.WithError(err).Error("[CRON] Не удалось добавить недельную сводку")
	}

	s.cron.Start()
	log.WithField("tz", s.loc.String()).Info("Планировщик задач запущен")
}

// Stop останавливает планировщик и дожидается текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// Enabled сообщает, включены ли напоминания.
func (s *Scheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// SetEnabled включает или выключает напоминания (команда /reminders).
func (s *Scheduler) SetEnabled(on bool) {
	s.mu.Lock()
	s.enabled = on
	s.mu.Unlock()
	log.WithField("enabled", on).Info("Напоминания переключены")
}

// addReminder регистрирует напоминание в момент открытия окна.
func (s *Scheduler) addReminder(ctx context.Context, open report.Clock, period tracker.Period, text string) {
	spec := fmt.Sprintf("%d %d * * *", open.Minute, open.Hour)
	if _, err := s.cron.AddFunc(spec, func() {
		s.remind(ctx, period, text)
	}); err != nil {
		log.WithError(err).WithField("spec", spec).Error("[CRON] Не удалось добавить напоминание")
	}
}

// remind отправляет напоминание, если окно ещё не отмечено.
func (s *Scheduler) remind(ctx context.Context, period tracker.Period, text string) {
	if !s.Enabled() {
		return
	}

	now := time.Now().In(s.loc)
	if entry, ok := s.tracker.GetTodayEntry(now); ok {
		done := entry.AfternoonCheckin
		if period == tracker.PeriodEvening {
			done = entry.EveningCheckin
		}
		if done {
			log.WithField("period", period).Debug("[CRON] Окно уже отмечено, напоминание не нужно")
			return
		}
	}

	log.WithField("period", period).Info("[CRON] Отправляем напоминание")
	s.sendFunc(s.ownerID, text)
}

// sendWeeklySummary отправляет сводку за завершившуюся неделю.
// Попутно GetWeekReport разблокирует награду, если неделя дотянула до порога.
func (s *Scheduler) sendWeeklySummary(ctx context.Context) {
	if !s.Enabled() {
		return
	}

	now := time.Now().In(s.loc)
	lastWeek := common.WeekStart(now).AddDate(0, 0, -7)
	rep := s.reports.GetWeekReport(ctx, lastWeek, now)

	if rep.ExpectedCount == 0 {
		log.Debug("[CRON] Прошлая неделя без ожидаемых окон, сводку не шлём")
		return
	}

	text := fmt.Sprintf(
		"📬 Итоги недели: %.0f%% (чисто %d из %d, пропущено %d)",
		rep.Percentage, rep.CleanCount, rep.ExpectedCount, rep.MissedCount)
	if rep.Reward != nil {
		text += fmt.Sprintf("\n%s Новая награда: %s!", rep.Reward.Icon, rep.Reward.Title)
	}
	text += "\nПодробнее: /week"

	s.sendFunc(s.ownerID, text)
}
