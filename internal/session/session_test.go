package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/session"
	"github.com/magabrotheeeer/workshop-portal/internal/tokenstore"
)

// Мок для ProfileFetcher
type FetcherMock struct {
	mock.Mock
}

func (m *FetcherMock) Me(ctx context.Context, token string) (*models.UserProfile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

// Мок для tokenstore.Store
type SlotMock struct {
	mock.Mock
}

func (m *SlotMock) Load(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *SlotMock) Save(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *SlotMock) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var errUnauthorized = errors.New("401 unauthorized")

func TestStore_InitialState(t *testing.T) {
	s := session.New(nil, tokenstore.NewMemory())

	snap := s.Snapshot()
	assert.True(t, snap.RestoreInProgress)
	assert.False(t, snap.IsAuthenticated())
	assert.False(t, snap.IsAdmin())
	assert.Nil(t, snap.CurrentUser())
}

func TestStore_Restore(t *testing.T) {
	admin := &models.UserProfile{ID: "1", FullName: "A", Role: models.RoleAdmin}

	tests := []struct {
		name          string
		persisted     string
		setupMocks    func(f *FetcherMock)
		wantAuth      bool
		wantAdmin     bool
		wantPersisted string
	}{
		{
			name:      "no persisted token",
			persisted: "",
			setupMocks: func(f *FetcherMock) {
			},
			wantPersisted: "",
		},
		{
			name:      "valid token",
			persisted: "tok",
			setupMocks: func(f *FetcherMock) {
				f.On("Me", mock.Anything, "tok").Return(admin, nil).Once()
			},
			wantAuth:      true,
			wantAdmin:     true,
			wantPersisted: "tok",
		},
		{
			name:      "rejected token is discarded",
			persisted: "expired",
			setupMocks: func(f *FetcherMock) {
				f.On("Me", mock.Anything, "expired").Return(nil, errUnauthorized).Once()
			},
			wantPersisted: "",
		},
		{
			name:      "network failure discards token",
			persisted: "tok",
			setupMocks: func(f *FetcherMock) {
				f.On("Me", mock.Anything, "tok").Return(nil, errors.New("connection refused")).Once()
			},
			wantPersisted: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			slot := tokenstore.NewMemory()
			if tt.persisted != "" {
				require.NoError(t, slot.Save(ctx, tt.persisted))
			}
			fetcher := new(FetcherMock)
			tt.setupMocks(fetcher)

			s := session.New(nil, slot)
			require.NoError(t, s.Restore(ctx, fetcher))

			snap := s.Snapshot()
			assert.False(t, snap.RestoreInProgress)
			assert.Equal(t, tt.wantAuth, snap.IsAuthenticated())
			assert.Equal(t, tt.wantAdmin, snap.IsAdmin())

			persisted, err := slot.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPersisted, persisted)

			select {
			case <-s.Done():
			default:
				t.Fatal("Done must be closed after restore")
			}
			fetcher.AssertExpectations(t)
		})
	}
}

func TestStore_RestoreRunsOnce(t *testing.T) {
	ctx := context.Background()
	slot := tokenstore.NewMemory()
	require.NoError(t, slot.Save(ctx, "tok"))

	var calls atomic.Int32
	release := make(chan struct{})
	fetcher := session.ProfileFetcherFunc(func(ctx context.Context, token string) (*models.UserProfile, error) {
		calls.Add(1)
		<-release
		return &models.UserProfile{Role: models.RoleUser}, nil
	})

	s := session.New(nil, slot)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Restore(ctx, fetcher)
		}()
	}

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Wait(waitCtx), context.DeadlineExceeded)
	assert.True(t, s.Snapshot().RestoreInProgress)

	close(release)
	wg.Wait()

	require.NoError(t, s.Wait(ctx))
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, s.IsAuthenticated())

	// повторный вызов после завершения тоже не ходит на бэкенд
	require.NoError(t, s.Restore(ctx, fetcher))
	assert.Equal(t, int32(1), calls.Load())
}

func TestStore_RestoreDoesNotClobberLogin(t *testing.T) {
	ctx := context.Background()
	slot := tokenstore.NewMemory()
	require.NoError(t, slot.Save(ctx, "old"))

	s := session.New(nil, slot)
	fresh := &models.UserProfile{Email: "fresh@example.com", Role: models.RoleUser}

	fetcher := session.ProfileFetcherFunc(func(ctx context.Context, token string) (*models.UserProfile, error) {
		// пока старый токен проверяется, пользователь входит заново
		require.NoError(t, s.SetSession(ctx, "new", fresh))
		return nil, errUnauthorized
	})
	require.NoError(t, s.Restore(ctx, fetcher))

	snap := s.Snapshot()
	assert.True(t, snap.IsAuthenticated())
	assert.Equal(t, "new", snap.Token)
	assert.Equal(t, fresh, snap.User)

	persisted, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", persisted)
}

func TestStore_RestoreLoadError(t *testing.T) {
	slot := new(SlotMock)
	slot.On("Load", mock.Anything).Return("", errors.New("disk failure")).Once()

	s := session.New(nil, slot)
	err := s.Restore(context.Background(), new(FetcherMock))

	assert.Error(t, err)
	assert.False(t, s.Snapshot().RestoreInProgress)
	assert.False(t, s.IsAuthenticated())
}

func TestStore_RestoreDiscardsCorruptSlot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
	slot := tokenstore.NewFile(path)

	s := session.New(nil, slot)
	require.NoError(t, s.Restore(ctx, new(FetcherMock)))

	assert.False(t, s.Snapshot().RestoreInProgress)
	assert.False(t, s.IsAuthenticated())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "corrupt slot must be removed")

	token, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStore_SetSession(t *testing.T) {
	ctx := context.Background()
	user := &models.UserProfile{Email: "u@example.com", Role: models.RoleUser}

	t.Run("persists token", func(t *testing.T) {
		slot := tokenstore.NewMemory()
		s := session.New(nil, slot)

		require.NoError(t, s.SetSession(ctx, "tok", user))
		assert.True(t, s.IsAuthenticated())
		assert.False(t, s.IsAdmin())
		assert.Equal(t, "tok", s.Token())
		assert.Equal(t, user, s.CurrentUser())

		persisted, _ := slot.Load(ctx)
		assert.Equal(t, "tok", persisted)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		s := session.New(nil, tokenstore.NewMemory())
		assert.ErrorIs(t, s.SetSession(ctx, "", user), session.ErrInvalidSession)
		assert.ErrorIs(t, s.SetSession(ctx, "tok", nil), session.ErrInvalidSession)
		assert.False(t, s.IsAuthenticated())
	})

	t.Run("save failure keeps memory unchanged", func(t *testing.T) {
		slot := new(SlotMock)
		slot.On("Save", mock.Anything, "tok").Return(errors.New("read-only")).Once()
		s := session.New(nil, slot)

		assert.Error(t, s.SetSession(ctx, "tok", user))
		assert.False(t, s.IsAuthenticated())
		slot.AssertExpectations(t)
	})
}

func TestStore_ClearSession(t *testing.T) {
	ctx := context.Background()
	user := &models.UserProfile{Role: models.RoleAdmin}

	t.Run("clears memory and slot", func(t *testing.T) {
		slot := tokenstore.NewMemory()
		s := session.New(nil, slot)
		require.NoError(t, s.SetSession(ctx, "tok", user))

		require.NoError(t, s.ClearSession(ctx))
		assert.False(t, s.IsAuthenticated())
		assert.False(t, s.IsAdmin())
		assert.Empty(t, s.Token())

		persisted, _ := slot.Load(ctx)
		assert.Empty(t, persisted)
	})

	t.Run("slot failure still clears memory", func(t *testing.T) {
		slot := new(SlotMock)
		slot.On("Save", mock.Anything, "tok").Return(nil).Once()
		slot.On("Clear", mock.Anything).Return(errors.New("io")).Once()
		s := session.New(nil, slot)
		require.NoError(t, s.SetSession(ctx, "tok", user))

		assert.Error(t, s.ClearSession(ctx))
		assert.False(t, s.IsAuthenticated())
	})
}

func TestStore_UpdateUser(t *testing.T) {
	ctx := context.Background()
	s := session.New(nil, tokenstore.NewMemory())

	assert.ErrorIs(t, s.UpdateUser(&models.UserProfile{}), session.ErrNotAuthenticated)

	require.NoError(t, s.SetSession(ctx, "tok", &models.UserProfile{FullName: "Old"}))
	gen := s.Snapshot().Generation

	require.NoError(t, s.UpdateUser(&models.UserProfile{FullName: "New"}))
	assert.Equal(t, "New", s.CurrentUser().FullName)

	// ответ, начатый до предыдущего изменения, отбрасывается
	err := s.UpdateUserAt(gen, &models.UserProfile{FullName: "Stale"})
	assert.ErrorIs(t, err, session.ErrStale)
	assert.Equal(t, "New", s.CurrentUser().FullName)

	require.NoError(t, s.UpdateUserAt(s.Snapshot().Generation, &models.UserProfile{FullName: "Fresh"}))
	assert.Equal(t, "Fresh", s.CurrentUser().FullName)
}

func TestStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	s := session.New(nil, tokenstore.NewMemory())

	var got []session.Snapshot
	unsubscribe := s.Subscribe(func(snap session.Snapshot) {
		// обработчик вызывается вне блокировки и может читать Store
		_ = s.Snapshot()
		got = append(got, snap)
	})

	require.NoError(t, s.Restore(ctx, new(FetcherMock)))
	require.NoError(t, s.SetSession(ctx, "tok", &models.UserProfile{Role: models.RoleUser}))
	require.NoError(t, s.ClearSession(ctx))

	require.Len(t, got, 3)
	assert.False(t, got[0].RestoreInProgress)
	assert.True(t, got[1].IsAuthenticated())
	assert.False(t, got[2].IsAuthenticated())
	assert.Less(t, got[0].Generation, got[1].Generation)
	assert.Less(t, got[1].Generation, got[2].Generation)

	unsubscribe()
	require.NoError(t, s.SetSession(ctx, "tok", &models.UserProfile{}))
	assert.Len(t, got, 3)
}
