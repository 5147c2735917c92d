// Package tracker — repository.go выполняет операции с таблицей day_entries.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fizzytracker.ru/tracker-bot/internal/common"
)

// Repository предоставляет методы для работы с таблицей day_entries.
// Гарантия таблицы: не больше одной строки на дату (UNIQUE на date).
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий записей дней.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// List возвращает всю историю записей, отсортированную по дате по возрастанию.
func (r *Repository) List(ctx context.Context) ([]DayEntry, error) {
	query := `
		SELECT id, date, afternoon_checkin, evening_checkin,
		       afternoon_had_drink, evening_had_drink, created_at, updated_at
		FROM day_entries
		ORDER BY date ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки истории: %w", err)
	}
	defer rows.Close()

	var entries []DayEntry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения истории: %w", err)
	}
	return entries, nil
}

// Upsert вставляет или заменяет запись дня по ключу даты и возвращает
// каноническую сохранённую строку. Повторный чек-ин того же дня
// обновляет существующую строку — строк-дублей не бывает.
func (r *Repository) Upsert(ctx context.Context, e DayEntry) (DayEntry, error) {
	query := `
		INSERT INTO day_entries (date, afternoon_checkin, evening_checkin,
		                         afternoon_had_drink, evening_had_drink)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (date) DO UPDATE
		SET afternoon_checkin   = EXCLUDED.afternoon_checkin,
		    evening_checkin     = EXCLUDED.evening_checkin,
		    afternoon_had_drink = EXCLUDED.afternoon_had_drink,
		    evening_had_drink   = EXCLUDED.evening_had_drink,
		    updated_at          = NOW()
		RETURNING id, date, afternoon_checkin, evening_checkin,
		          afternoon_had_drink, evening_had_drink, created_at, updated_at
	`
	row := r.db.QueryRow(ctx, query,
		e.Date, e.AfternoonCheckin, e.EveningCheckin,
		e.AfternoonHadDrink, e.EveningHadDrink,
	)
	saved, err := scanEntry(row.Scan)
	if err != nil {
		return DayEntry{}, fmt.Errorf("ошибка сохранения записи %s: %w", e.Date, err)
	}
	return saved, nil
}

// DeleteAll стирает всю историю. Используется только админской командой /reset.
func (r *Repository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM day_entries`); err != nil {
		return fmt.Errorf("ошибка очистки истории: %w", err)
	}
	return nil
}

// Count возвращает количество записей. Используется в /stats.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM day_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта записей: %w", err)
	}
	return n, nil
}

// scanEntry читает одну строку day_entries.
// Колонка date имеет тип DATE — pgx отдаёт её как time.Time,
// переводим обратно в канонический ключ "YYYY-MM-DD".
func scanEntry(scan func(dest ...any) error) (DayEntry, error) {
	var e DayEntry
	var date time.Time
	err := scan(
		&e.ID, &date, &e.AfternoonCheckin, &e.EveningCheckin,
		&e.AfternoonHadDrink, &e.EveningHadDrink, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return DayEntry{}, err
	}
	e.Date = common.FormatDate(date)
	return e, nil
}
