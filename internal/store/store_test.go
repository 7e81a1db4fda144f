package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLStore(t *testing.T) *SQL {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// One connection so every query sees the same in-memory database.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	s, err := NewSQL(gdb)
	require.NoError(t, err)
	return s
}

func newRedisStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client), mr
}

func TestBackends_Contract(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	backends := map[string]Store{
		"memory": NewMemory(),
		"redis":  redisStore,
		"sql":    newSQLStore(t),
	}

	for name, s := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, PostsKey, `[{"id":1}]`))
			v, ok, err := s.Get(ctx, PostsKey)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"id":1}]`, v)

			require.NoError(t, s.Set(ctx, PostsKey, `[]`))
			v, _, err = s.Get(ctx, PostsKey)
			require.NoError(t, err)
			assert.Equal(t, `[]`, v)

			require.NoError(t, s.Remove(ctx, PostsKey))
			_, ok, err = s.Get(ctx, PostsKey)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Remove(ctx, "never-set"))
			assert.NoError(t, Ping(ctx, s))
		})
	}
}

func TestRedis_StoresWithoutExpiry(t *testing.T) {
	s, mr := newRedisStore(t)
	require.NoError(t, s.Set(context.Background(), SessionKey, `{"id":1}`))
	assert.Zero(t, mr.TTL(SessionKey))
}

func TestNamespace_IsolatesProfiles(t *testing.T) {
	ctx := context.Background()
	base := NewMemory()
	a := Namespace(base, "joker:a")
	b := Namespace(base, "joker:b")

	require.NoError(t, a.Set(ctx, ThemeKey, "light"))

	_, ok, err := b.Get(ctx, ThemeKey)
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := base.Get(ctx, "joker:a:theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)

	require.NoError(t, a.Remove(ctx, ThemeKey))
	assert.Equal(t, 0, base.Len())
}

func TestNamespace_EmptyPrefix(t *testing.T) {
	ctx := context.Background()
	base := NewMemory()
	require.NoError(t, Namespace(base, "").Set(ctx, UsersKey, "[]"))

	_, ok, _ := base.Get(ctx, UsersKey)
	assert.True(t, ok)
}

func TestGetJSON(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	var dest []int
	found, err := GetJSON(ctx, s, UsersKey, &dest)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, s, UsersKey, []int{1, 2}))
	found, err = GetJSON(ctx, s, UsersKey, &dest)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []int{1, 2}, dest)

	require.NoError(t, s.Set(ctx, UsersKey, "{not json"))
	found, err = GetJSON(ctx, s, UsersKey, &dest)
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrCorrupt)
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingStore) Set(context.Context, string, string) error         { return f.err }
func (f failingStore) Remove(context.Context, string) error              { return f.err }

func TestInstrument_PassesThrough(t *testing.T) {
	ctx := context.Background()
	s := Instrument(NewMemory(), "memory")

	require.NoError(t, s.Set(ctx, ThemeKey, "dark"))
	v, ok, err := s.Get(ctx, ThemeKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
	assert.NoError(t, Ping(ctx, s))

	boom := errors.New("boom")
	failing := Instrument(failingStore{err: boom}, "broken")
	_, _, err = failing.Get(ctx, ThemeKey)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, failing.Set(ctx, ThemeKey, "x"), boom)
	assert.ErrorIs(t, failing.Remove(ctx, ThemeKey), boom)
}
