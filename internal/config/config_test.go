package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("CONFIG_FILE", "")
	os.Unsetenv("STORAGE_BACKEND")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, BackendMemory, cfg.Storage.Backend)
	require.Equal(t, "harmony_admin_", cfg.Storage.KeyPrefix)
	require.Equal(t, "5001", cfg.Server.Port)
	require.Equal(t, 4*time.Second, cfg.Notifications.Success)
	require.Equal(t, 8*time.Second, cfg.Notifications.Error)
	require.Equal(t, "harmony-exports", cfg.MinIO.Bucket)
	require.False(t, cfg.MinIO.Enabled())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("NOTIFY_SUCCESS_MS", "1500")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, BackendRedis, cfg.Storage.Backend)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, 2.5, cfg.RateLimit.RPS)
	require.Equal(t, 1500*time.Millisecond, cfg.Notifications.Success)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	os.Unsetenv("STORAGE_BACKEND")
	t.Setenv("SERVER_PORT", "7000")

	path := filepath.Join(t.TempDir(), "admin.yaml")
	require.NoError(t, os.WriteFile(path, []byte("STORAGE_BACKEND: sqlite\nSTORAGE_SQLITE_PATH: /tmp/admin.db\nSERVER_PORT: \"6000\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, BackendSQLite, cfg.Storage.Backend)
	require.Equal(t, "/tmp/admin.db", cfg.Storage.SQLitePath)
	require.Equal(t, "7000", cfg.Server.Port, "environment wins over file")
}

func TestValidateRejectsIncompleteBackends(t *testing.T) {
	require.Error(t, (&Config{Storage: StorageConfig{Backend: BackendMongo}}).Validate())
	require.Error(t, (&Config{Storage: StorageConfig{Backend: BackendRedis}}).Validate())
	require.Error(t, (&Config{Storage: StorageConfig{Backend: "etcd"}}).Validate())
	require.NoError(t, (&Config{Storage: StorageConfig{Backend: BackendSQLite, SQLitePath: "x.db"}}).Validate())
}
