package database

import (
	"context"
	"path/filepath"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/config"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/kv"
)

func TestOpenKV(t *testing.T) {
	ctx := context.Background()

	s, err := OpenKV(ctx, &config.Config{Storage: config.StorageConfig{Backend: config.BackendMemory}})
	require.NoError(t, err)
	require.IsType(t, &kv.MemoryStore{}, s)

	path := filepath.Join(t.TempDir(), "admin.db")
	s, err = OpenKV(ctx, &config.Config{Storage: config.StorageConfig{Backend: config.BackendSQLite, SQLitePath: path}})
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", "v"))
	require.NoError(t, s.Close())

	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	s, err = OpenKV(ctx, &config.Config{
		Storage: config.StorageConfig{Backend: config.BackendRedis},
		Redis:   config.RedisConfig{Host: m.Host(), Port: m.Port(), Namespace: "t:"},
	})
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", "v"))
	require.True(t, m.Exists("t:k"))
	require.NoError(t, s.Close())

	_, err = OpenKV(ctx, &config.Config{Storage: config.StorageConfig{Backend: "etcd"}})
	require.Error(t, err)
}

func TestNewRedisClientFailsFast(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	addr := config.RedisConfig{Host: m.Host(), Port: m.Port()}
	m.Close()

	_, err = NewRedisClient(context.Background(), addr)
	require.Error(t, err)
}
