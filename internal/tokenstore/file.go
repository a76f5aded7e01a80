package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File хранит токен в JSON-файле с правами 0600.
type File struct {
	mu   sync.Mutex
	path string
}

type fileContent struct {
	Token string `json:"token"`
}

// NewFile создаёт файловое хранилище. Файл и каталог создаются при первом Save.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path возвращает путь к файлу токена.
func (f *File) Path() string {
	return f.path
}

func (f *File) Load(_ context.Context) (string, error) {
	const op = "tokenstore.File.Load"
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var content fileContent
	if err := json.Unmarshal(data, &content); err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrCorrupt, err)
	}
	return content.Token, nil
}

func (f *File) Save(_ context.Context, token string) error {
	const op = "tokenstore.File.Save"
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	data, err := json.Marshal(fileContent{Token: token})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// запись через временный файл, чтобы не оставить слот полузаписанным
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (f *File) Clear(_ context.Context) error {
	const op = "tokenstore.File.Clear"
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
