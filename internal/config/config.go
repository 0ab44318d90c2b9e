package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/storage"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/pkg/logger"
)

// Config holds application configuration
type Config struct {
	Server        ServerConfig
	Storage       StorageConfig
	MongoDB       MongoDBConfig
	Redis         RedisConfig
	MinIO         storage.MinIOConfig
	RateLimit     RateLimitConfig
	Notifications NotificationsConfig
	Log           LogConfig
	Seed          bool
	ExportDir     string
}

type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Backend names accepted by StorageConfig.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

type StorageConfig struct {
	Backend    string
	KeyPrefix  string
	SQLitePath string
}

type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	Namespace string
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

type NotificationsConfig struct {
	Success time.Duration
	Info    time.Duration
	Warning time.Duration
	Error   time.Duration
}

type LogConfig struct {
	Level string
}

// LoadConfig loads configuration from environment variables, an optional
// .env file and an optional config file named by CONFIG_FILE.
func LoadConfig() (*Config, error) {
	return Load(os.Getenv("CONFIG_FILE"))
}

// Load is LoadConfig with an explicit config file path; "" means none.
// Environment variables win over the file.
func Load(file string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5001")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10)
	v.SetDefault("STORAGE_BACKEND", BackendMemory)
	v.SetDefault("STORAGE_KEY_PREFIX", "harmony_admin_")
	v.SetDefault("STORAGE_SQLITE_PATH", "harmony_admin.db")
	v.SetDefault("MONGODB_DATABASE", "harmony_admin")
	v.SetDefault("MONGODB_COLLECTION", "kv")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_NAMESPACE", "")
	v.SetDefault("MINIO_BUCKET", "harmony-exports")
	v.SetDefault("MINIO_URL_EXPIRY_MINUTES", 15)
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_USE_REDIS", false)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("NOTIFY_SUCCESS_MS", 4000)
	v.SetDefault("NOTIFY_INFO_MS", 5000)
	v.SetDefault("NOTIFY_WARNING_MS", 6000)
	v.SetDefault("NOTIFY_ERROR_MS", 8000)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_DEMO_DATA", false)
	v.SetDefault("EXPORT_DIR", "exports")

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
		logger.Debugf("config file loaded: %s", v.ConfigFileUsed())
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("SERVER_PORT"),
			Host:            v.GetString("SERVER_HOST"),
			Environment:     v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:     time.Duration(v.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			ShutdownTimeout: time.Duration(v.GetInt("SERVER_SHUTDOWN_TIMEOUT")) * time.Second,
		},
		Storage: StorageConfig{
			Backend:    strings.ToLower(v.GetString("STORAGE_BACKEND")),
			KeyPrefix:  v.GetString("STORAGE_KEY_PREFIX"),
			SQLitePath: v.GetString("STORAGE_SQLITE_PATH"),
		},
		MongoDB: MongoDBConfig{
			URI:        v.GetString("MONGODB_URI"),
			Database:   v.GetString("MONGODB_DATABASE"),
			Collection: v.GetString("MONGODB_COLLECTION"),
			Timeout:    time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:      v.GetString("REDIS_HOST"),
			Port:      v.GetString("REDIS_PORT"),
			Password:  v.GetString("REDIS_PASSWORD"),
			DB:        v.GetInt("REDIS_DB"),
			Namespace: v.GetString("REDIS_NAMESPACE"),
		},
		MinIO: storage.MinIOConfig{
			Endpoint:         v.GetString("MINIO_ENDPOINT"),
			AccessKey:        v.GetString("MINIO_ACCESS_KEY"),
			SecretKey:        v.GetString("MINIO_SECRET_KEY"),
			UseSSL:           v.GetBool("MINIO_USE_SSL"),
			Bucket:           v.GetString("MINIO_BUCKET"),
			URLExpiryMinutes: v.GetInt("MINIO_URL_EXPIRY_MINUTES"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Notifications: NotificationsConfig{
			Success: time.Duration(v.GetInt("NOTIFY_SUCCESS_MS")) * time.Millisecond,
			Info:    time.Duration(v.GetInt("NOTIFY_INFO_MS")) * time.Millisecond,
			Warning: time.Duration(v.GetInt("NOTIFY_WARNING_MS")) * time.Millisecond,
			Error:   time.Duration(v.GetInt("NOTIFY_ERROR_MS")) * time.Millisecond,
		},
		Log:       LogConfig{Level: v.GetString("LOG_LEVEL")},
		Seed:      v.GetBool("SEED_DEMO_DATA"),
		ExportDir: v.GetString("EXPORT_DIR"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("storage backend redis requires REDIS_HOST")
		}
	case BackendMongo:
		if c.MongoDB.URI == "" {
			return fmt.Errorf("storage backend mongo requires MONGODB_URI")
		}
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage backend sqlite requires STORAGE_SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.RateLimit.UseRedis && c.Redis.Host == "" {
		logger.Warnf("RATE_LIMIT_USE_REDIS set without REDIS_HOST; falling back to in-memory limiter")
	}
	return nil
}
