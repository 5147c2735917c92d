// Package admin — служебные команды владельца: сброс истории и статистика.
package admin

import "time"

// Stats — сводка состояния приложения для команды /stats.
type Stats struct {
	EntryCount     int
	RewardCount    int
	FirstEntryDate string // "YYYY-MM-DD", пусто если истории нет
	CurrentStreak  int
	LongestStreak  int
	DBHealthy      bool
	Uptime         time.Duration
}
