package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var msk = time.FixedZone("MSK", 3*60*60)

func at(h, m int) time.Time {
	return time.Date(2025, time.June, 18, h, m, 0, 0, msk)
}

func TestWindow_Expected(t *testing.T) {
	w := DefaultWindows().Afternoon
	day := at(0, 0)

	assert.False(t, w.Expected(day, at(15, 59)), "окно ещё открыто")
	assert.False(t, w.Expected(day, at(16, 0)), "ровно в закрытие — ещё не ожидаемое (строго позже)")
	assert.True(t, w.Expected(day, at(16, 1)))

	// Ожидаемость привязана к дате, а не к «сейчас»: вчерашнее окно
	// ожидаемо с сегодняшней точки зрения
	yesterday := day.AddDate(0, 0, -1)
	assert.True(t, w.Expected(yesterday, at(9, 0)))
}

func TestWindow_Status(t *testing.T) {
	w := DefaultWindows().Evening // 20:45–21:45
	day := at(0, 0)

	assert.Equal(t, WindowPending, w.Status(day, at(20, 0), false))
	assert.Equal(t, WindowActive, w.Status(day, at(21, 0), false))
	assert.Equal(t, WindowActive, w.Status(day, at(21, 45), false), "грейс ещё идёт")
	assert.Equal(t, WindowMissed, w.Status(day, at(22, 0), false))
	// Чек-ин побеждает всё остальное
	assert.Equal(t, WindowSatisfied, w.Status(day, at(21, 0), true))
	assert.Equal(t, WindowSatisfied, w.Status(day, at(23, 0), true))
}

func TestWindowStatus_String(t *testing.T) {
	assert.Equal(t, "pending", WindowPending.String())
	assert.Equal(t, "active", WindowActive.String())
	assert.Equal(t, "missed", WindowMissed.String())
	assert.Equal(t, "satisfied", WindowSatisfied.String())
}
