// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки хранилища записей
var (
	// ErrStoreUnavailable — база недоступна, история загружена из локального снапшота
	ErrStoreUnavailable = errors.New("хранилище недоступно, работаем по локальной копии")
	// ErrSaveFailed — чек-ин применён локально, но не сохранён в базе
	ErrSaveFailed = errors.New("чек-ин сохранён на устройстве, но не в облаке")
)

// Ошибки админки
var (
	// ErrWrongPassword — неверный пароль администратора
	ErrWrongPassword = errors.New("неверный пароль")
)
