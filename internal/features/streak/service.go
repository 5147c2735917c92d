// Package streak — service.go отдаёт серии поверх актуальной истории.
// Сервис не хранит счётчики: они пересчитываются при каждом запросе
// из неизменяемого снимка истории, поэтому никогда не расходятся
// с записями.
package streak

import (
	"time"

	"fizzytracker.ru/tracker-bot/internal/features/tracker"
)

// Service считает серии чистых дней.
type Service struct {
	entries *tracker.Service
}

// NewService создаёт новый сервис стриков.
func NewService(entries *tracker.Service) *Service {
	return &Service{entries: entries}
}

// Streaks возвращает (текущая серия, рекорд) на момент now.
func (s *Service) Streaks(now time.Time) (current, longest int) {
	return Calculate(s.entries.Entries(), now)
}
