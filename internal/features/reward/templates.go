// Package reward — templates.go содержит набор шаблонов наград.
// Первые десять недель — именованные награды, дальше — циклический
// запасной набор с номером недели в названии.
package reward

import "fmt"

// Template — заготовка награды без привязки к неделе.
type Template struct {
	Title       string
	Description string
	Icon        string
	Color       string
}

// weeklyTemplates — награды за недели 1..10, по порядку.
var weeklyTemplates = []Template{
	{
		Title:       "Первые шаги",
		Description: "Первая неделя трекинга позади! Любой путь начинается с одного шага.",
		Icon:        "👟",
		Color:       "green",
	},
	{
		Title:       "Набираем ход",
		Description: "Две недели подряд! Привычки, которые останутся с тобой надолго.",
		Icon:        "🚀",
		Color:       "blue",
	},
	{
		Title:       "Чемпион постоянства",
		Description: "Три недели дисциплины! Твоя настойчивость вдохновляет.",
		Icon:        "🏆",
		Color:       "yellow",
	},
	{
		Title:       "Месячный рубеж",
		Description: "Месяц прогресса! Ты доказал, что перемены возможны.",
		Icon:        "🎯",
		Color:       "purple",
	},
	{
		Title:       "Мастер привычки",
		Description: "Пять недель! Новый образ жизни уже почти закрепился.",
		Icon:        "⭐",
		Color:       "indigo",
	},
	{
		Title:       "Лидер перемен",
		Description: "Шесть недель роста! Ты становишься тем, кем хочешь быть.",
		Icon:        "🌟",
		Color:       "pink",
	},
	{
		Title:       "Воин здоровья",
		Description: "Семь недель подряд! Такая преданность делу — редкость.",
		Icon:        "⚡",
		Color:       "orange",
	},
	{
		Title:       "Герой двух месяцев",
		Description: "Восемь недель! Ты пример для всех, кто идёт тем же путём.",
		Icon:        "🦸",
		Color:       "red",
	},
	{
		Title:       "Легенда образа жизни",
		Description: "Девять недель! Эти перемены будут работать на тебя годами.",
		Icon:        "👑",
		Color:       "emerald",
	},
	{
		Title:       "Идеальная десятка",
		Description: "Десять недель безупречности! Это действительно особенное достижение.",
		Icon:        "💎",
		Color:       "cyan",
	},
}

// fallbackTemplates — циклический набор для недель после десятой.
var fallbackTemplates = []Template{
	{
		Title:       "В огне",
		Description: "Серия впечатляет! Держи темп.",
		Icon:        "🔥",
		Color:       "red",
	},
	{
		Title:       "Крепче стали",
		Description: "Ты сильнее, чем думаешь. Отличный прогресс!",
		Icon:        "💪",
		Color:       "blue",
	},
	{
		Title:       "Радужный воин",
		Description: "Ты добавляешь красок в свой путь к здоровью!",
		Icon:        "🌈",
		Color:       "purple",
	},
	{
		Title:       "Художник жизни",
		Description: "Из здоровых решений складывается настоящая картина!",
		Icon:        "🎨",
		Color:       "pink",
	},
}

// ForWeek возвращает шаблон награды для номера недели (нумерация с 1).
// Недели 1..10 — именованные награды; дальше запасной набор по кругу,
// с номером недели в названии и описании, чтобы награды различались.
func ForWeek(weekNumber int) Template {
	// Номер меньше единицы возможен только при неделе раньше первой
	// записи; шаблон всё равно должен быть валидным.
	if weekNumber < 1 {
		weekNumber = 1
	}
	if weekNumber <= len(weeklyTemplates) {
		return weeklyTemplates[weekNumber-1]
	}

	idx := (weekNumber - len(weeklyTemplates) - 1) % len(fallbackTemplates)
	tpl := fallbackTemplates[idx]
	tpl.Title = fmt.Sprintf("%s — неделя %d", tpl.Title, weekNumber)
	tpl.Description = fmt.Sprintf("Неделя %d: %s", weekNumber, tpl.Description)
	return tpl
}
