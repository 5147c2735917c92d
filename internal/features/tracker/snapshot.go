// Package tracker — snapshot.go хранит локальную копию истории в JSON-файле.
// Это страховка на случай недоступности базы: последняя успешно
// загруженная история пишется на диск, и при ошибке подключения
// бот продолжает работать по ней в режиме «только чтение + локальные чек-ины».
package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot — локальный снапшот истории (key-value: один файл, весь список).
type Snapshot struct {
	path string
}

// NewSnapshot создаёт снапшот по указанному пути.
func NewSnapshot(path string) *Snapshot {
	return &Snapshot{path: path}
}

// snapshotFile — формат файла снапшота.
type snapshotFile struct {
	Entries []DayEntry `json:"entries"`
}

// Save записывает историю на диск. Запись идёт через временный файл
// с последующим переименованием, чтобы не оставить обрезанный JSON
// при падении посреди записи.
func (s *Snapshot) Save(entries []DayEntry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("ошибка создания каталога снапшота: %w", err)
	}

	data, err := json.MarshalIndent(snapshotFile{Entries: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации снапшота: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("ошибка записи снапшота: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("ошибка переименования снапшота: %w", err)
	}
	return nil
}

// Load читает историю с диска. Отсутствие файла — не ошибка:
// возвращается пустая история (бот ещё ни разу не сохранялся).
func (s *Snapshot) Load() ([]DayEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения снапшота: %w", err)
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("ошибка разбора снапшота: %w", err)
	}
	return file.Entries, nil
}
