package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/storage"
)

// CreateUser сохраняет пользователя, назначая ему ID и дату создания.
// Email сравнивается без учёта регистра.
func (s *Storage) CreateUser(ctx context.Context, u storage.User) (*storage.User, error) {
	const op = "storage.memory.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	key := strings.ToLower(u.Email)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[key]; exists {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}
	u.ID = s.newID()
	u.CreatedAt = models.NewTimestamp(s.now())
	stored := u
	s.users[u.ID] = &stored
	s.emails[key] = u.ID

	out := stored
	return &out, nil
}

// UserByEmail возвращает пользователя по email.
func (s *Storage) UserByEmail(ctx context.Context, email string) (*storage.User, error) {
	const op = "storage.memory.UserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	out := *s.users[id]
	return &out, nil
}

// UserByID возвращает пользователя по ID.
func (s *Storage) UserByID(ctx context.Context, id string) (*storage.User, error) {
	const op = "storage.memory.UserByID"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	out := *u
	return &out, nil
}

// Users возвращает профили всех пользователей в порядке регистрации.
func (s *Storage) Users(ctx context.Context) ([]models.UserProfile, error) {
	const op = "storage.memory.Users"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]models.UserProfile, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u.Profile())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt.Time) {
			return out[i].CreatedAt.Before(out[j].CreatedAt.Time)
		}
		return out[i].Email < out[j].Email
	})
	return out, nil
}

// CountUsers возвращает число пользователей.
func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	const op = "storage.memory.CountUsers"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

// UpdateUser применяет apply к пользователю под блокировкой записи.
// Email и ID менять нельзя.
func (s *Storage) UpdateUser(ctx context.Context, id string, apply func(u *storage.User)) (*storage.User, error) {
	const op = "storage.memory.UpdateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	updated := *u
	apply(&updated)
	updated.ID, updated.Email = u.ID, u.Email
	*u = updated

	out := updated
	return &out, nil
}
