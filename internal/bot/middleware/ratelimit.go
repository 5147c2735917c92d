package middleware

import (
	"sync"
	"time"
)

// RateLimiter ограничивает частоту команд скользящим окном.
// Бот однопользовательский, поэтому никаких карт по user_id —
// одно окно на всё приложение. Защищает в первую очередь от
// «залипшей» кнопки и дублей callback-запросов от Telegram.
type RateLimiter struct {
	mu     sync.Mutex
	stamps []time.Time
	limit  int
	window time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
	}
}

// Allow регистрирует запрос и сообщает, пропускать ли его.
// Старые метки отсекаются прямо здесь — фоновой очистки нет,
// памяти на limit меток хватает всегда.
func (rl *RateLimiter) Allow(now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rl.window)
	recent := rl.stamps[:0]
	for _, t := range rl.stamps {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	rl.stamps = recent

	if len(rl.stamps) >= rl.limit {
		return false
	}
	rl.stamps = append(rl.stamps, now)
	return true
}
