package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/config"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/kv"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/pkg/logger"
)

// NewRedisClient builds a client from cfg and pings it.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr(), Password: cfg.Password, DB: cfg.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// OpenKV opens the key-value backend selected by cfg.Storage.Backend.
// Closing the returned store releases its connection.
func OpenKV(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		logger.Infof("record store: redis %s", cfg.Redis.Addr())
		return kv.NewRedisStore(client, cfg.Redis.Namespace), nil
	case config.BackendMongo:
		client, col, err := OpenRecordCollection(ctx, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		store, err := kv.NewMongoStore(ctx, col)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo store: %w", err)
		}
		logger.Infof("record store: mongo %s.%s", cfg.MongoDB.Database, cfg.MongoDB.Collection)
		return &mongoKV{MongoStore: store, disconnect: func() error { return client.Disconnect(context.Background()) }}, nil
	case config.BackendSQLite:
		store, err := kv.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Infof("record store: sqlite %s", cfg.Storage.SQLitePath)
		return store, nil
	case config.BackendMemory, "":
		logger.Warnf("record store: in-memory, data is lost on restart")
		return kv.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

type mongoKV struct {
	*kv.MongoStore
	disconnect func() error
}

func (m *mongoKV) Close() error { return m.disconnect() }
