package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/workshop-portal/internal/config"
)

func setupRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	store, err := NewRedis(context.Background(), config.RedisConnection{Addr: mr.Addr()}, "test:token")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestStores_SaveLoadClear(t *testing.T) {
	redisStore, _ := setupRedis(t)

	stores := map[string]Store{
		"memory": NewMemory(),
		"file":   NewFile(filepath.Join(t.TempDir(), "nested", "token.json")),
		"redis":  redisStore,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			token, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, token)

			require.NoError(t, store.Save(ctx, "tok-1"))
			token, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "tok-1", token)

			require.NoError(t, store.Save(ctx, "tok-2"))
			token, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "tok-2", token)

			require.NoError(t, store.Clear(ctx))
			token, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, token)

			// повторная очистка не ошибка
			require.NoError(t, store.Clear(ctx))
		})
	}
}

func TestFile_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewFile(path)

	require.NoError(t, store.Save(context.Background(), "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFile_CorruptedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("not-json"), 0o600))

	_, err := NewFile(path).Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRedis_UsesKey(t *testing.T) {
	store, mr := setupRedis(t)

	require.NoError(t, store.Save(context.Background(), "tok"))
	val, err := mr.Get("test:token")
	require.NoError(t, err)
	assert.Equal(t, "tok", val)
}

func TestNew_Drivers(t *testing.T) {
	ctx := context.Background()

	store, err := New(ctx, config.TokenStore{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, store)

	path := filepath.Join(t.TempDir(), "t.json")
	store, err = New(ctx, config.TokenStore{Driver: "file", Path: path})
	require.NoError(t, err)
	require.IsType(t, &File{}, store)
	assert.Equal(t, path, store.(*File).Path())

	_, err = New(ctx, config.TokenStore{Driver: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
