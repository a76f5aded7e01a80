// Package tokenstore реализует долговременный слот для bearer-токена.
//
// Слот хранит ровно одно значение: отсутствие токена означает, что
// пользователь не вошёл. Пишут в слот только session.Store.SetSession и
// session.Store.ClearSession.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/magabrotheeeer/workshop-portal/internal/config"
)

var (
	// ErrUnknownDriver возвращается для неизвестного значения token_store.driver.
	ErrUnknownDriver = errors.New("unknown token store driver")
	// ErrCorrupt означает, что содержимое слота не читается. Такой слот
	// безопасно очистить.
	ErrCorrupt = errors.New("token slot is corrupt")
)

// Store описывает долговременный слот токена.
type Store interface {
	// Load возвращает сохранённый токен или пустую строку, если его нет.
	Load(ctx context.Context) (string, error)
	// Save сохраняет токен, заменяя предыдущий.
	Save(ctx context.Context, token string) error
	// Clear удаляет токен. Удаление отсутствующего токена не ошибка.
	Clear(ctx context.Context) error
}

// New создаёт хранилище по настройкам token_store.
func New(ctx context.Context, cfg config.TokenStore) (Store, error) {
	const op = "tokenstore.New"

	switch cfg.Driver {
	case "", "file":
		path := cfg.Path
		if path == "" {
			var err error
			path, err = DefaultPath()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		return NewFile(path), nil
	case "redis":
		store, err := NewRedis(ctx, cfg.RedisConnection, cfg.Key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return store, nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownDriver, cfg.Driver)
	}
}

// DefaultPath возвращает путь к файлу токена в пользовательском каталоге настроек.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workshops", "token.json"), nil
}
