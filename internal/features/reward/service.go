// Package reward — service.go решает, когда разблокировать награду.
// Награды — необязательное украшение: любая ошибка хранилища здесь
// логируется и глотается, недельный отчёт из-за наград не падает никогда.
package reward

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"fizzytracker.ru/tracker-bot/internal/common"
)

// Store — контракт внешнего хранилища наград.
type Store interface {
	Find(ctx context.Context, weekStart string) (*WeeklyReward, error)
	Insert(ctx context.Context, rw WeeklyReward) error
	ListUnlocked(ctx context.Context) ([]WeeklyReward, error)
	DeleteAll(ctx context.Context) error
}

// Service управляет разблокировкой наград.
type Service struct {
	store Store
}

// NewService создаёт новый сервис наград.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Evaluate разблокирует награду за квалифицировавшуюся неделю.
// Вызывается отчётным сервисом только для завершённых недель с
// процентом выше порога.
//
// Алгоритм:
//  1. Если награда за эту неделю уже есть — ничего не делаем (идемпотентность).
//  2. Номер недели: floor((weekStart - дата первой записи) / 7 дней) + 1.
//  3. Шаблон по номеру недели, вставка с unlocked=true.
//
// Любая ошибка — в лог и наружу не выходит.
func (s *Service) Evaluate(ctx context.Context, weekStart time.Time, firstEntry time.Time, now time.Time) {
	key := common.FormatDate(weekStart)

	existing, err := s.store.Find(ctx, key)
	if err != nil {
		log.WithError(err).WithField("week_start", key).Warn("Не удалось проверить награду недели")
		return
	}
	if existing != nil {
		return
	}

	weekNumber := common.DaysBetween(firstEntry, weekStart)/7 + 1
	tpl := ForWeek(weekNumber)

	rw := WeeklyReward{
		WeekStart:   key,
		Title:       tpl.Title,
		Description: tpl.Description,
		Icon:        tpl.Icon,
		Color:       tpl.Color,
		Unlocked:    true,
		UnlockedAt:  now,
	}
	if err := s.store.Insert(ctx, rw); err != nil {
		log.WithError(err).WithField("week_start", key).Warn("Не удалось сохранить награду недели")
		return
	}

	log.WithFields(log.Fields{
		"week_start":  key,
		"week_number": weekNumber,
		"title":       tpl.Title,
	}).Info("Награда недели разблокирована")
}

// Find возвращает награду недели, если она есть. Ошибка хранилища
// глотается: отчёт просто уйдёт без награды.
func (s *Service) Find(ctx context.Context, weekStart string) *WeeklyReward {
	rw, err := s.store.Find(ctx, weekStart)
	if err != nil {
		log.WithError(err).WithField("week_start", weekStart).Warn("Не удалось загрузить награду недели")
		return nil
	}
	return rw
}

// List возвращает все разблокированные награды.
func (s *Service) List(ctx context.Context) ([]WeeklyReward, error) {
	return s.store.ListUnlocked(ctx)
}

// Reset стирает все награды. Вызывается только командой /reset.
func (s *Service) Reset(ctx context.Context) error {
	return s.store.DeleteAll(ctx)
}
