// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики,
// фильтр владельца и собирает всё в один объект Bot.
package app

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"fizzytracker.ru/tracker-bot/internal/bot"
	"fizzytracker.ru/tracker-bot/internal/bot/filters"
	"fizzytracker.ru/tracker-bot/internal/common"
	"fizzytracker.ru/tracker-bot/internal/config"
	"fizzytracker.ru/tracker-bot/internal/db/postgres"
	"fizzytracker.ru/tracker-bot/internal/features/admin"
	"fizzytracker.ru/tracker-bot/internal/features/report"
	"fizzytracker.ru/tracker-bot/internal/features/reward"
	"fizzytracker.ru/tracker-bot/internal/features/streak"
	"fizzytracker.ru/tracker-bot/internal/features/tracker"
	"fizzytracker.ru/tracker-bot/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc := cfg.Location()

	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	// При недоступной базе миграции откладываются: бот стартует по
	// локальному снапшоту, а схему догонит следующий запуск.
	if err := runMigrations(ctx, pool); err != nil {
		log.WithError(err).Warn("Миграции не применились, продолжаем в деградированном режиме")
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Репозитории ===
	entryRepo := tracker.NewRepository(pool)
	rewardRepo := reward.NewRepository(pool)

	// === 4. Сервисы ===
	trackerService := tracker.NewService(entryRepo, tracker.NewSnapshot(cfg.SnapshotPath))
	degraded := false
	if err := trackerService.Load(ctx); err != nil {
		if !errors.Is(err, common.ErrStoreUnavailable) {
			return nil, fmt.Errorf("ошибка загрузки истории: %w", err)
		}
		degraded = true
		log.Warn("История загружена из локального снапшота, база недоступна")
	}

	rewardService := reward.NewService(rewardRepo)
	streakService := streak.NewService(trackerService)

	windows, err := windowsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка настройки окон: %w", err)
	}
	reportService := report.NewService(trackerService, rewardService, windows, cfg.RewardThresholdPercent, loc)

	adminService := admin.NewService(cfg.AdminPasswordHash, trackerService, rewardService, streakService, pool, loc)

	// === 5. Обработчики ===
	trackerHandler := tracker.NewHandler(trackerService, botAPI)
	streakHandler := streak.NewHandler(streakService, trackerService, botAPI)
	reportHandler := report.NewHandler(reportService, botAPI)
	rewardHandler := reward.NewHandler(rewardService, botAPI, loc)
	adminHandler := admin.NewHandler(adminService, botAPI)

	// === 6. Фильтр владельца ===
	ownerFilter := filters.NewOwnerFilter(cfg.OwnerID, botAPI)

	// === 7. Собираем бота ===
	b := bot.New(
		botAPI, cfg,
		trackerHandler,
		streakHandler,
		reportHandler,
		rewardHandler,
		adminHandler,
		ownerFilter,
	)

	// === 8. Планировщик задач ===
	scheduler := jobs.NewScheduler(trackerService, reportService, b.SendMessageToUser, cfg.OwnerID, loc, cfg.RemindersEnabled)
	b.AttachScheduler(scheduler)

	if degraded {
		b.SendMessageToUser(cfg.OwnerID,
			"⚠️ База недоступна, работаю по локальной копии истории. Новые отметки сохраняются локально.")
	}

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// windowsFromConfig строит расписание окон из строк конфигурации.
// Сами строки уже проверены в config.Validate.
func windowsFromConfig(cfg *config.Config) (report.Windows, error) {
	parse := func(s string) (report.Clock, error) {
		h, m, err := common.ParseClock(s)
		if err != nil {
			return report.Clock{}, fmt.Errorf("некорректное время %q: %w", s, err)
		}
		return report.Clock{Hour: h, Minute: m}, nil
	}

	var w report.Windows
	var err error
	if w.Afternoon.Open, err = parse(cfg.AfternoonOpen); err != nil {
		return w, err
	}
	if w.Afternoon.Close, err = parse(cfg.AfternoonClose); err != nil {
		return w, err
	}
	if w.Evening.Open, err = parse(cfg.EveningOpen); err != nil {
		return w, err
	}
	if w.Evening.Close, err = parse(cfg.EveningClose); err != nil {
		return w, err
	}
	return w, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationsTable(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001DayEntries},
		{2, migration002WeeklyRewards},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001DayEntries = `
CREATE TABLE IF NOT EXISTS day_entries (
    id BIGSERIAL PRIMARY KEY,
    date DATE UNIQUE NOT NULL,
    afternoon_checkin BOOLEAN NOT NULL DEFAULT FALSE,
    evening_checkin BOOLEAN NOT NULL DEFAULT FALSE,
    afternoon_had_drink BOOLEAN NOT NULL DEFAULT FALSE,
    evening_had_drink BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_day_entries_date ON day_entries(date);
`

var migration002WeeklyRewards = `
CREATE TABLE IF NOT EXISTS weekly_rewards (
    id BIGSERIAL PRIMARY KEY,
    week_start DATE UNIQUE NOT NULL,
    title VARCHAR(255) NOT NULL,
    description TEXT,
    icon VARCHAR(16),
    color VARCHAR(16),
    unlocked BOOLEAN NOT NULL DEFAULT TRUE,
    unlocked_at TIMESTAMP DEFAULT NOW(),
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_weekly_rewards_week_start ON weekly_rewards(week_start);
`
