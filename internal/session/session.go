// Package session хранит текущую сессию клиента: bearer-токен и профиль
// пользователя. Store единственный владелец этого состояния, остальные
// компоненты читают его через Snapshot или подписку.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/tokenstore"
)

var (
	// ErrInvalidSession возвращается SetSession для пустого токена или профиля.
	ErrInvalidSession = errors.New("session requires token and profile")
	// ErrNotAuthenticated возвращается при изменении профиля без активной сессии.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrStale означает, что ответ устарел: сессия менялась, пока он выполнялся.
	ErrStale = errors.New("stale session generation")
)

// ProfileFetcher проверяет токен на бэкенде и возвращает профиль (GET /auth/me).
type ProfileFetcher interface {
	Me(ctx context.Context, token string) (*models.UserProfile, error)
}

// ProfileFetcherFunc позволяет использовать функцию как ProfileFetcher.
type ProfileFetcherFunc func(ctx context.Context, token string) (*models.UserProfile, error)

func (f ProfileFetcherFunc) Me(ctx context.Context, token string) (*models.UserProfile, error) {
	return f(ctx, token)
}

// Snapshot неизменяемый срез состояния сессии.
type Snapshot struct {
	Token             string
	User              *models.UserProfile
	RestoreInProgress bool
	// Generation растёт при каждом изменении сессии.
	Generation uint64
}

// IsAuthenticated: есть и токен, и профиль.
func (s Snapshot) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// IsAdmin: профиль есть и роль admin.
func (s Snapshot) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.IsAdmin()
}

// CurrentUser возвращает профиль или nil.
func (s Snapshot) CurrentUser() *models.UserProfile {
	return s.User
}

// Store хранит сессию и синхронизирует токен с долговременным слотом.
type Store struct {
	log  *slog.Logger
	slot tokenstore.Store

	mu        sync.RWMutex
	token     string
	user      *models.UserProfile
	restoring bool
	gen       uint64

	restoreOnce sync.Once
	restoreErr  error
	restored    chan struct{}

	subsMu  sync.Mutex
	subs    map[uint64]func(Snapshot)
	nextSub uint64
}

// New создаёт пустую сессию в состоянии восстановления.
func New(log *slog.Logger, slot tokenstore.Store) *Store {
	return &Store{
		log:       sl.OrDiscard(log),
		slot:      slot,
		restoring: true,
		restored:  make(chan struct{}),
		subs:      make(map[uint64]func(Snapshot)),
	}
}

// Restore один раз за время жизни Store пытается восстановить сессию из
// сохранённого токена. Повторные и параллельные вызовы ждут первого и
// возвращают его результат. По завершении RestoreInProgress всегда false.
func (s *Store) Restore(ctx context.Context, fetcher ProfileFetcher) error {
	s.restoreOnce.Do(func() {
		s.restoreErr = s.restore(ctx, fetcher)
		close(s.restored)
	})
	return s.restoreErr
}

func (s *Store) restore(ctx context.Context, fetcher ProfileFetcher) error {
	const op = "session.Store.Restore"
	log := s.log.With(slog.String("op", op))

	token, err := s.slot.Load(ctx)
	if errors.Is(err, tokenstore.ErrCorrupt) {
		// испорченный слот очищаем, иначе ошибка повторялась бы при каждом запуске
		log.Warn("persisted token is unreadable, discarding", sl.Err(err))
		var clearErr error
		s.finishRestore(func() {
			clearErr = s.slot.Clear(ctx)
		})
		if clearErr != nil {
			log.Error("failed to discard persisted token", sl.Err(clearErr))
			return fmt.Errorf("%s: %w", op, clearErr)
		}
		return nil
	}
	if err != nil {
		log.Warn("failed to read persisted token", sl.Err(err))
		s.finishRestore(func() {})
		return fmt.Errorf("%s: %w", op, err)
	}
	if token == "" {
		log.Debug("no persisted token")
		s.finishRestore(func() {})
		return nil
	}

	startGen := s.Snapshot().Generation
	profile, err := fetcher.Me(ctx, token)
	if err != nil || profile == nil {
		if err == nil {
			err = errors.New("empty profile")
		}
		log.Info("persisted token rejected", sl.Err(err))
		var clearErr error
		s.finishRestore(func() {
			// за время проверки мог пройти вход с новым токеном, его не трогаем
			if s.gen != startGen {
				return
			}
			clearErr = s.slot.Clear(ctx)
		})
		if clearErr != nil {
			log.Error("failed to discard persisted token", sl.Err(clearErr))
			return fmt.Errorf("%s: %w", op, clearErr)
		}
		return nil
	}

	s.finishRestore(func() {
		if s.gen != startGen {
			log.Debug("discarding stale restore result")
			return
		}
		s.token = token
		s.user = profile
		s.gen++
	})
	log.Debug("session restored", slog.String("email", profile.Email))
	return nil
}

func (s *Store) finishRestore(apply func()) {
	s.mu.Lock()
	apply()
	s.restoring = false
	s.gen++
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
}

// Done закрывается, когда восстановление завершено.
func (s *Store) Done() <-chan struct{} {
	return s.restored
}

// Wait блокируется до завершения восстановления или отмены ctx.
func (s *Store) Wait(ctx context.Context) error {
	select {
	case <-s.restored:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetSession сохраняет токен в слот и устанавливает профиль. При ошибке
// записи состояние в памяти не меняется.
func (s *Store) SetSession(ctx context.Context, token string, user *models.UserProfile) error {
	const op = "session.Store.SetSession"
	if token == "" || user == nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidSession)
	}

	s.mu.Lock()
	if err := s.slot.Save(ctx, token); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}
	s.token = token
	s.user = user
	s.gen++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
	return nil
}

// ClearSession удаляет токен из слота и очищает сессию. Память очищается
// даже если слот вернул ошибку.
func (s *Store) ClearSession(ctx context.Context) error {
	const op = "session.Store.ClearSession"

	s.mu.Lock()
	err := s.slot.Clear(ctx)
	s.token = ""
	s.user = nil
	s.gen++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
	if err != nil {
		s.log.Error("failed to clear persisted token", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateUser целиком заменяет профиль активной сессии.
func (s *Store) UpdateUser(user *models.UserProfile) error {
	return s.replaceUser(nil, user)
}

// UpdateUserAt заменяет профиль, только если сессия не менялась с
// поколения gen. Иначе возвращает ErrStale и ничего не меняет.
func (s *Store) UpdateUserAt(gen uint64, user *models.UserProfile) error {
	return s.replaceUser(&gen, user)
}

func (s *Store) replaceUser(gen *uint64, user *models.UserProfile) error {
	const op = "session.Store.UpdateUser"
	if user == nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidSession)
	}

	s.mu.Lock()
	if s.token == "" || s.user == nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}
	if gen != nil && *gen != s.gen {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrStale)
	}
	s.user = user
	s.gen++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
	return nil
}

// Snapshot возвращает текущее состояние.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Token возвращает текущий токен или пустую строку.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) IsAuthenticated() bool { return s.Snapshot().IsAuthenticated() }

func (s *Store) IsAdmin() bool { return s.Snapshot().IsAdmin() }

func (s *Store) CurrentUser() *models.UserProfile { return s.Snapshot().CurrentUser() }

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Token:             s.token,
		User:              s.user,
		RestoreInProgress: s.restoring,
		Generation:        s.gen,
	}
}

// Subscribe регистрирует обработчик, который вызывается после каждого
// изменения сессии. Возвращает функцию отписки.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *Store) publish(snap Snapshot) {
	s.subsMu.Lock()
	handlers := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		handlers = append(handlers, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range handlers {
		fn(snap)
	}
}
