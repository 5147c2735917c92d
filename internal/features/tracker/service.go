// Package tracker — service.go содержит бизнес-логику чек-инов.
// Сервис владеет единственным изменяемым состоянием приложения —
// отсортированной историей записей в памяти. Вся работа с ней идёт
// через методы сервиса под мьютексом: чек-ин синхронно читает самую
// свежую историю перед построением обновлённой записи, никаких
// «захваченных» копий списка в замыканиях.
package tracker

import (
	"context"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"fizzytracker.ru/tracker-bot/internal/common"
)

// Store — контракт внешнего хранилища записей.
// Хранилище обязано гарантировать не больше одной строки на дату.
type Store interface {
	List(ctx context.Context) ([]DayEntry, error)
	Upsert(ctx context.Context, e DayEntry) (DayEntry, error)
	DeleteAll(ctx context.Context) error
}

// Service управляет историей чек-инов.
type Service struct {
	store    Store
	snapshot *Snapshot

	mu      sync.RWMutex
	entries []DayEntry // всегда отсортированы по дате по возрастанию
}

// NewService создаёт новый сервис чек-инов.
func NewService(store Store, snapshot *Snapshot) *Service {
	return &Service{store: store, snapshot: snapshot}
}

// Load загружает историю из базы. При недоступности базы поднимает
// последний локальный снапшот и возвращает common.ErrStoreUnavailable:
// вызывающий обязан показать мягкое предупреждение, но бот продолжает
// работать по локальной копии.
func (s *Service) Load(ctx context.Context) error {
	entries, err := s.store.List(ctx)
	if err != nil {
		log.WithError(err).Warn("База недоступна, поднимаем локальный снапшот")

		cached, cacheErr := s.snapshot.Load()
		if cacheErr != nil {
			log.WithError(cacheErr).Error("Снапшот тоже не читается, стартуем с пустой историей")
			cached = nil
		}
		s.replace(cached)
		return common.ErrStoreUnavailable
	}

	s.replace(entries)
	s.saveSnapshot()
	return nil
}

// Entries возвращает копию всей истории (по возрастанию даты).
// Движок агрегации работает с этим неизменяемым срезом.
func (s *Service) Entries() []DayEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DayEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// GetTodayEntry возвращает запись сегодняшнего дня, если она есть.
func (s *Service) GetTodayEntry(now time.Time) (DayEntry, bool) {
	today := common.Today(now)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.Date == today {
			return e, true
		}
	}
	return DayEntry{}, false
}

// FirstEntryDate возвращает дату самой первой записи (полночь пояса loc).
// Второе значение false — история пуста.
func (s *Service) FirstEntryDate(loc *time.Location) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return time.Time{}, false
	}
	d, err := common.ParseDate(s.entries[0].Date, loc)
	if err != nil {
		// В историю попала битая дата — считаем, что первой записи нет
		log.WithField("date", s.entries[0].Date).Error("Некорректный ключ даты в истории")
		return time.Time{}, false
	}
	return d, true
}

// CheckIn применяет чек-ин окна за сегодняшний день.
//
// Алгоритм:
//  1. Под мьютексом читаем самую свежую запись сегодняшнего дня
//     (или создаём пустую) и применяем чек-ин к памяти — оптимистично.
//  2. Пишем в базу upsert'ом по ключу даты.
//  3. Успех — заменяем запись канонической строкой из базы.
//     Ошибка — локальное состояние НЕ откатываем, сохраняем снапшот
//     и возвращаем common.ErrSaveFailed (мягкое предупреждение).
//
// Повторный чек-ин того же окна идемпотентен: строка одна, флаги те же.
func (s *Service) CheckIn(ctx context.Context, now time.Time, period Period, hadDrink bool) (DayEntry, error) {
	today := common.Today(now)

	s.mu.Lock()
	current := BlankEntry(today)
	for _, e := range s.entries {
		if e.Date == today {
			current = e
			break
		}
	}
	updated := current.WithCheckin(period, hadDrink)
	s.applyLocked(updated)
	s.mu.Unlock()

	saved, err := s.store.Upsert(ctx, updated)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"date":   today,
			"period": period,
		}).Warn("Чек-ин не сохранился в базе, остаёмся на локальной копии")
		s.saveSnapshot()
		return updated, common.ErrSaveFailed
	}

	s.mu.Lock()
	s.applyLocked(saved)
	s.mu.Unlock()
	s.saveSnapshot()
	return saved, nil
}

// Reset стирает всю историю: база, память, снапшот.
// Вызывается только админской командой после проверки пароля.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return err
	}
	s.replace(nil)
	s.saveSnapshot()
	return nil
}

// applyLocked вставляет или заменяет запись по ключу даты и пересортировывает.
// Вызывается только под s.mu.
func (s *Service) applyLocked(e DayEntry) {
	for i := range s.entries {
		if s.entries[i].Date == e.Date {
			s.entries[i] = e
			return
		}
	}
	s.entries = append(s.entries, e)
	sort.Slice(s.entries, func(i, j int) bool {
		return s.entries[i].Date < s.entries[j].Date
	})
}

// replace полностью заменяет историю (после загрузки или сброса).
func (s *Service) replace(entries []DayEntry) {
	sorted := make([]DayEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	s.mu.Lock()
	s.entries = sorted
	s.mu.Unlock()
}

// saveSnapshot пишет локальную копию. Ошибка записи — только в лог:
// снапшот — страховка, а не обязательная часть чек-ина.
func (s *Service) saveSnapshot() {
	if err := s.snapshot.Save(s.Entries()); err != nil {
		log.WithError(err).Warn("Не удалось сохранить локальный снапшот")
	}
}
