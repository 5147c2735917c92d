// Package admin — service.go содержит проверку пароля и опасные операции.
// Пароль сверяется с Argon2id-хешем из конфигурации; от перебора защищает
// лимит попыток в памяти (бот однопользовательский, таблица попыток
// в БД здесь была бы из пушки по воробьям).
package admin

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"fizzytracker.ru/tracker-bot/internal/common"
	"fizzytracker.ru/tracker-bot/internal/features/reward"
	"fizzytracker.ru/tracker-bot/internal/features/streak"
	"fizzytracker.ru/tracker-bot/internal/features/tracker"
)

const (
	maxAttempts    = 3
	attemptsWindow = time.Hour
)

// Pinger — проверка живости базы для /stats.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service выполняет служебные операции.
type Service struct {
	passwordHash string
	tracker      *tracker.Service
	rewards      *reward.Service
	streaks      *streak.Service
	db           Pinger
	loc          *time.Location
	startedAt    time.Time

	mu       sync.Mutex
	attempts []time.Time // неудачные вводы пароля
}

// NewService создаёт сервис служебных команд.
func NewService(passwordHash string, trackerService *tracker.Service, rewardService *reward.Service, streakService *streak.Service, db Pinger, loc *time.Location) *Service {
	return &Service{
		passwordHash: passwordHash,
		tracker:      trackerService,
		rewards:      rewardService,
		streaks:      streakService,
		db:           db,
		loc:          loc,
		startedAt:    time.Now(),
	}
}

// VerifyPassword проверяет пароль владельца.
// Три неудачные попытки за час — блокировка до конца окна.
func (s *Service) VerifyPassword(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-attemptsWindow)
	recent := s.attempts[:0]
	for _, t := range s.attempts {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	s.attempts = recent

	if len(s.attempts) >= maxAttempts {
		return fmt.Errorf("слишком много попыток, подождите час")
	}

	if !verifyArgon2id(password, s.passwordHash) {
		s.attempts = append(s.attempts, now)
		return common.ErrWrongPassword
	}

	s.attempts = s.attempts[:0]
	return nil
}

// Reset стирает всю историю: записи, награды, локальный снапшот.
// Вызывается только после успешной проверки пароля.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.tracker.Reset(ctx); err != nil {
		return fmt.Errorf("сброс записей: %w", err)
	}
	if err := s.rewards.Reset(ctx); err != nil {
		return fmt.Errorf("сброс наград: %w", err)
	}
	log.Warn("История полностью стёрта командой /reset")
	return nil
}

// Stats собирает сводку состояния для /stats.
func (s *Service) Stats(ctx context.Context, now time.Time) Stats {
	st := Stats{
		EntryCount: len(s.tracker.Entries()),
		Uptime:     time.Since(s.startedAt),
	}

	if first, ok := s.tracker.FirstEntryDate(s.loc); ok {
		st.FirstEntryDate = common.FormatDate(first)
	}

	st.CurrentStreak, st.LongestStreak = s.streaks.Streaks(now)

	if rewards, err := s.rewards.List(ctx); err == nil {
		st.RewardCount = len(rewards)
	} else {
		log.WithError(err).Warn("Не удалось посчитать награды для /stats")
	}

	st.DBHealthy = s.db.Ping(ctx) == nil
	return st
}

// verifyArgon2id проверяет пароль по хешу Argon2id.
// Формат хеша: $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func verifyArgon2id(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Сравнение в постоянном времени (защита от timing attack)
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}
