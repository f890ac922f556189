package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	bolt, err := OpenBoltStore(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(t.TempDir()),
		"bolt":   bolt,
		"redis":  NewRedisStore(client, "detect:test:"),
	}
}

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get(ctx, "credentials")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(ctx, "credentials", []byte(`{"access":"A1"}`)))
			value, ok, err := store.Get(ctx, "credentials")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `{"access":"A1"}`, string(value))

			require.NoError(t, store.Set(ctx, "credentials", []byte(`{"access":"A2"}`)))
			value, _, err = store.Get(ctx, "credentials")
			require.NoError(t, err)
			assert.Equal(t, `{"access":"A2"}`, string(value))

			require.NoError(t, store.Delete(ctx, "credentials"))
			_, ok, err = store.Get(ctx, "credentials")
			require.NoError(t, err)
			assert.False(t, ok)

			// deleting twice is fine
			require.NoError(t, store.Delete(ctx, "credentials"))
		})
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	value := []byte("R1")
	require.NoError(t, store.Set(ctx, "refresh", value))
	value[0] = 'X'
	got, ok, err := store.Get(ctx, "refresh")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "R1", string(got))
}

func TestBoltStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")
	store, err := OpenBoltStore(path, WithBucket("detect"))
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "credentials", []byte("persisted")))
	require.NoError(t, store.Close())

	store, err = OpenBoltStore(path, WithBucket("detect"))
	require.NoError(t, err)
	defer store.Close()
	value, ok, err := store.Get(ctx, "credentials")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted", string(value))
}

func TestFileStore_ReplacesRegularFile(t *testing.T) {
	ctx := context.Background()
	var useCases = []struct {
		description string
		baseURL     func(dir string) string
	}{
		{description: "plain path", baseURL: func(dir string) string { return dir }},
		{description: "file url", baseURL: func(dir string) string { return "file://" + dir }},
	}
	for _, useCase := range useCases {
		dir := t.TempDir()
		store := NewFileStore(useCase.baseURL(dir))
		require.NoError(t, store.Set(ctx, "credentials", []byte(`{"access":"A1"}`)), useCase.description)
		require.NoError(t, store.Set(ctx, "credentials", []byte(`{"access":"A2"}`)), useCase.description)

		info, err := os.Stat(filepath.Join(dir, "credentials.json"))
		require.NoError(t, err, useCase.description)
		assert.True(t, info.Mode().IsRegular(), useCase.description)
		_, err = os.Stat(filepath.Join(dir, "credentials.json.tmp"))
		assert.True(t, os.IsNotExist(err), useCase.description)

		value, ok, err := NewFileStore(useCase.baseURL(dir)).Get(ctx, "credentials")
		require.NoError(t, err, useCase.description)
		require.True(t, ok, useCase.description)
		assert.Equal(t, `{"access":"A2"}`, string(value), useCase.description)
	}
}

func TestFileStore_ObjectStorage(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore("mem://localhost/detect-session")
	require.NoError(t, store.Set(ctx, "credentials", []byte(`{"access":"A1"}`)))
	value, ok, err := store.Get(ctx, "credentials")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"access":"A1"}`, string(value))
	require.NoError(t, store.Delete(ctx, "credentials"))
}
