// Package reward управляет еженедельными наградами.
// models.go описывает запись награды.
package reward

import "time"

// WeeklyReward — разблокированная награда за неделю.
// Ключ — WeekStart ("YYYY-MM-DD", воскресенье недели), в базе UNIQUE:
// на одну неделю создаётся не больше одной награды.
type WeeklyReward struct {
	ID          int64     `json:"-"`
	WeekStart   string    `json:"week_start"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	Unlocked    bool      `json:"unlocked"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}
