// Package bot содержит главный модуль бота — инициализацию, запуск и остановку.
// bot.go подключает обработчики фич и запускает polling.
package bot

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fizzytracker.ru/tracker-bot/internal/bot/filters"
	"fizzytracker.ru/tracker-bot/internal/bot/middleware"
	"fizzytracker.ru/tracker-bot/internal/config"
	"fizzytracker.ru/tracker-bot/internal/features/admin"
	"fizzytracker.ru/tracker-bot/internal/features/report"
	"fizzytracker.ru/tracker-bot/internal/features/reward"
	"fizzytracker.ru/tracker-bot/internal/features/streak"
	"fizzytracker.ru/tracker-bot/internal/features/tracker"
	"fizzytracker.ru/tracker-bot/internal/jobs"
)

const helpText = `Я помогаю бросить газировку: дважды в день отмечаешься, я считаю серии и недели.

/checkin — отметить окно (день / вечер)
/today — карточка сегодняшнего дня
/streak — текущая серия и рекорд
/week — отчёт за неделю
/month — отчёт за месяц
/rewards — витрина наград
/reminders on|off — напоминания
/stats — состояние бота
/reset <пароль> — стереть всю историю`

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config
	loc *time.Location

	ownerFilter *filters.OwnerFilter
	rateLimiter *middleware.RateLimiter

	trackerHandler *tracker.Handler
	streakHandler  *streak.Handler
	reportHandler  *report.Handler
	rewardHandler  *reward.Handler
	adminHandler   *admin.Handler

	scheduler *jobs.Scheduler
	parser    *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	trackerHandler *tracker.Handler,
	streakHandler *streak.Handler,
	reportHandler *report.Handler,
	rewardHandler *reward.Handler,
	adminHandler *admin.Handler,
	ownerFilter *filters.OwnerFilter,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 8
	}

	return &Bot{
		api:            api,
		cfg:            cfg,
		loc:            cfg.Location(),
		ownerFilter:    ownerFilter,
		rateLimiter:    middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		trackerHandler: trackerHandler,
		streakHandler:  streakHandler,
		reportHandler:  reportHandler,
		rewardHandler:  rewardHandler,
		adminHandler:   adminHandler,
		parser:         NewCommandParser(),
		inflight:       make(chan struct{}, maxInFlight),
	}
}

// AttachScheduler связывает бота с планировщиком — для команды /reminders.
func (b *Bot) AttachScheduler(s *jobs.Scheduler) {
	b.scheduler = s
}

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	now := time.Now().In(b.loc)

	// Нажатия inline-кнопок чек-ина
	if update.CallbackQuery != nil {
		middleware.LogCallback(update.CallbackQuery)
		if !b.ownerFilter.CheckCallbackAccess(update.CallbackQuery) {
			return
		}
		if !b.rateLimiter.Allow(now) {
			log.Debug("rate limited (callback)")
			return
		}
		if tracker.MatchesCallback(update.CallbackQuery.Data) {
			b.trackerHandler.HandleCallback(ctx, update.CallbackQuery, now)
		}
		return
	}

	if update.Message == nil || update.Message.Text == "" {
		return
	}

	message := update.Message
	middleware.LogMessage(message)

	if !b.ownerFilter.CheckAccess(message) {
		return
	}

	if !b.rateLimiter.Allow(now) {
		log.Debug("rate limited")
		return
	}

	chatID := message.Chat.ID

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		b.sendMessage(chatID, "Не понял. Посмотри /help — там все команды.")
		return
	}

	b.routeCommand(ctx, chatID, cmd, args, now)
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, chatID int64, cmd string, args []string, now time.Time) {
	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("routing command")

	switch cmd {
	case "start":
		b.sendMessage(chatID, "Привет! 👋 Трекер отказа от газировки на связи.\n\n"+helpText)

	case "help":
		b.sendMessage(chatID, helpText)

	case "checkin":
		b.trackerHandler.HandleCheckin(ctx, chatID, now)

	case "today":
		b.reportHandler.HandleToday(ctx, chatID, now)

	case "streak":
		b.streakHandler.HandleStreak(ctx, chatID, now)

	case "week":
		b.reportHandler.HandleWeek(ctx, chatID, now)

	case "month":
		b.reportHandler.HandleMonth(ctx, chatID, now)

	case "rewards":
		b.rewardHandler.HandleRewards(ctx, chatID)

	case "reminders":
		b.handleReminders(chatID, args)

	case "reset":
		b.adminHandler.HandleReset(ctx, chatID, args)

	case "stats":
		b.adminHandler.HandleStats(ctx, chatID, now)

	default:
		b.sendMessage(chatID, "Такой команды нет. Посмотри /help.")
	}
}

// handleReminders обрабатывает /reminders [on|off].
func (b *Bot) handleReminders(chatID int64, args []string) {
	if b.scheduler == nil {
		b.sendMessage(chatID, "Планировщик не запущен")
		return
	}

	if len(args) == 0 {
		state := "выключены 🔕"
		if b.scheduler.Enabled() {
			state = "включены 🔔"
		}
		b.sendMessage(chatID, "Напоминания сейчас "+state+"\nПереключить: /reminders on|off")
		return
	}

	switch strings.ToLower(args[0]) {
	case "on":
		b.scheduler.SetEnabled(true)
		b.sendMessage(chatID, "🔔 Напоминания включены")
	case "off":
		b.scheduler.SetEnabled(false)
		b.sendMessage(chatID, "🔕 Напоминания выключены")
	default:
		b.sendMessage(chatID, "Использование: /reminders on|off")
	}
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// SendMessageToUser отправляет сообщение пользователю (для напоминаний).
func (b *Bot) SendMessageToUser(userID int64, text string) {
	msg := tgbotapi.NewMessage(userID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("Не удалось отправить сообщение")
	}
}

// CommandParser парсит команды с префиксом /.
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"/"},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
// Суффикс "@имябота" после команды отбрасывается.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}

	if !hasPrefix {
		return "", nil, false
	}

	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return command, args, true
}
