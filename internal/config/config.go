// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"

	"fizzytracker.ru/tracker-bot/internal/common"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// ID единственного пользователя бота — все остальные получают отказ
	OwnerID int64 `envconfig:"OWNER_ID" required:"true"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"fizzy_tracker"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно. Иначе "go на каждый апдейт" = утечка памяти при флуде.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"8"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Admin ---
	// Argon2id-хеш пароля для /reset (см. scripts/generate_hash.go)
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`

	// --- Окна чек-ина ---
	// Время открытия и закрытия окон в формате "HH:MM" (локальный пояс).
	// Закрытие — конец грейс-периода: после него окно считается ожидаемым.
	AfternoonOpen  string `envconfig:"AFTERNOON_WINDOW_OPEN" default:"15:00"`
	AfternoonClose string `envconfig:"AFTERNOON_WINDOW_CLOSE" default:"16:00"`
	EveningOpen    string `envconfig:"EVENING_WINDOW_OPEN" default:"20:45"`
	EveningClose   string `envconfig:"EVENING_WINDOW_CLOSE" default:"21:45"`

	// --- Награды и напоминания ---
	RewardThresholdPercent float64 `envconfig:"REWARD_THRESHOLD_PERCENT" default:"70"`
	RemindersEnabled       bool    `envconfig:"REMINDERS_ENABLED" default:"true"`

	// --- Локальный снапшот (fallback при недоступной БД) ---
	SnapshotPath string `envconfig:"SNAPSHOT_PATH" default:"data/entries.json"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"20"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Location возвращает часовой пояс приложения. Если базы зон в системе
// нет (минимальный Docker-образ) — фиксированный UTC+3.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		log.WithError(err).Warnf("Не удалось загрузить пояс %s, используем UTC+3", c.AppTimezone)
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

func (c *Config) Validate() error {
	if c.OwnerID == 0 {
		return fmt.Errorf("OWNER_ID не задан или равен 0")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.RewardThresholdPercent < 0 || c.RewardThresholdPercent > 100 {
		return fmt.Errorf("REWARD_THRESHOLD_PERCENT должен быть в пределах [0, 100]")
	}
	for name, v := range map[string]string{
		"AFTERNOON_WINDOW_OPEN":  c.AfternoonOpen,
		"AFTERNOON_WINDOW_CLOSE": c.AfternoonClose,
		"EVENING_WINDOW_OPEN":    c.EveningOpen,
		"EVENING_WINDOW_CLOSE":   c.EveningClose,
	} {
		if _, _, err := common.ParseClock(v); err != nil {
			return fmt.Errorf("%s: некорректное время %q (ожидается HH:MM)", name, v)
		}
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
