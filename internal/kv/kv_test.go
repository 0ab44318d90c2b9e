package kv

import (
	"context"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "harmony_admin_animals")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "harmony_admin_animals", `[{"id":"a1"}]`))
	require.NoError(t, s.Set(ctx, "harmony_admin_donations", `[]`))
	require.NoError(t, s.Set(ctx, "other_key", `x`))

	v, err := s.Get(ctx, "harmony_admin_animals")
	require.NoError(t, err)
	require.Equal(t, `[{"id":"a1"}]`, v)

	// overwrite replaces the value
	require.NoError(t, s.Set(ctx, "harmony_admin_animals", `[]`))
	v, err = s.Get(ctx, "harmony_admin_animals")
	require.NoError(t, err)
	require.Equal(t, `[]`, v)

	keys, err := s.Keys(ctx, "harmony_admin_")
	require.NoError(t, err)
	require.Equal(t, []string{"harmony_admin_animals", "harmony_admin_donations"}, keys)

	require.NoError(t, s.Delete(ctx, "harmony_admin_animals"))
	_, err = s.Get(ctx, "harmony_admin_animals")
	require.ErrorIs(t, err, ErrNotFound)

	// deleting a missing key is not an error
	require.NoError(t, s.Delete(ctx, "harmony_admin_animals"))

	all, err := s.Keys(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"harmony_admin_donations", "other_key"}, all)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestRedisStore(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	s := NewRedisStore(client, "test:")
	defer s.Close()
	exerciseStore(t, s)

	// values live under the namespace in Redis itself
	require.True(t, m.Exists("test:harmony_admin_donations"))
	require.False(t, m.Exists("harmony_admin_donations"))
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStore_PersistsToFile(t *testing.T) {
	path := t.TempDir() + "/admin.db"
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "harmony_admin_faqs", `[{"id":"f1"}]`))
	require.NoError(t, s.Close())

	s2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s2.Close()
	v, err := s2.Get(ctx, "harmony_admin_faqs")
	require.NoError(t, err)
	require.Equal(t, `[{"id":"f1"}]`, v)
}
