// Package reward — repository.go выполняет операции с таблицей weekly_rewards.
package reward

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fizzytracker.ru/tracker-bot/internal/common"
)

// Repository предоставляет методы для работы с таблицей weekly_rewards.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий наград.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Find возвращает награду недели или nil, если её нет.
// Отсутствие награды — штатная ситуация, не ошибка.
func (r *Repository) Find(ctx context.Context, weekStart string) (*WeeklyReward, error) {
	query := `
		SELECT id, week_start, title, description, icon, color, unlocked, unlocked_at
		FROM weekly_rewards
		WHERE week_start = $1
	`
	rw, err := scanReward(r.db.QueryRow(ctx, query, weekStart).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка поиска награды %s: %w", weekStart, err)
	}
	return rw, nil
}

// Insert сохраняет новую награду. Конфликт по week_start игнорируется:
// награда за неделю создаётся не больше одного раза, кто успел — тот и записал.
func (r *Repository) Insert(ctx context.Context, rw WeeklyReward) error {
	query := `
		INSERT INTO weekly_rewards (week_start, title, description, icon, color, unlocked, unlocked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (week_start) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		rw.WeekStart, rw.Title, rw.Description, rw.Icon, rw.Color, rw.Unlocked, rw.UnlockedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения награды %s: %w", rw.WeekStart, err)
	}
	return nil
}

// ListUnlocked возвращает все разблокированные награды по возрастанию недели.
func (r *Repository) ListUnlocked(ctx context.Context) ([]WeeklyReward, error) {
	query := `
		SELECT id, week_start, title, description, icon, color, unlocked, unlocked_at
		FROM weekly_rewards
		WHERE unlocked
		ORDER BY week_start ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки наград: %w", err)
	}
	defer rows.Close()

	var rewards []WeeklyReward
	for rows.Next() {
		rw, err := scanReward(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования награды: %w", err)
		}
		rewards = append(rewards, *rw)
	}
	return rewards, rows.Err()
}

// DeleteAll стирает все награды. Используется только командой /reset.
func (r *Repository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM weekly_rewards`); err != nil {
		return fmt.Errorf("ошибка очистки наград: %w", err)
	}
	return nil
}

// scanReward читает одну строку weekly_rewards.
func scanReward(scan func(dest ...any) error) (*WeeklyReward, error) {
	var rw WeeklyReward
	var weekStart time.Time
	err := scan(
		&rw.ID, &weekStart, &rw.Title, &rw.Description,
		&rw.Icon, &rw.Color, &rw.Unlocked, &rw.UnlockedAt,
	)
	if err != nil {
		return nil, err
	}
	rw.WeekStart = common.FormatDate(weekStart)
	return &rw, nil
}
