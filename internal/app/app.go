// Package app assembles the admin service from configuration: the record
// store on its chosen backend, the notification bus, the export sink and the
// HTTP router.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/handlers"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/admin/handler"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/config"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/database"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/kv"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/notify"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/sanctuary"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/storage"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/tabular"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/pkg/logger"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/pkg/middleware"
)

var log = logger.Named("app")

// NewStore wraps backend in a record store configured for the sanctuary
// resources.
func NewStore(cfg *config.Config, backend kv.Store) *records.Store {
	opts := sanctuary.StoreOptions()
	if cfg.Storage.KeyPrefix != "" {
		opts = append(opts, records.WithKeyPrefix(cfg.Storage.KeyPrefix))
	}
	return records.NewStore(backend, opts...)
}

// OpenStore opens the configured backend and, when cfg.Seed is set, fills
// empty resources with demo data. The returned backend must be closed by the
// caller.
func OpenStore(ctx context.Context, cfg *config.Config) (*records.Store, kv.Store, error) {
	backend, err := database.OpenKV(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	store := NewStore(cfg, backend)
	if cfg.Seed {
		created, err := sanctuary.Seed(ctx, store)
		if err != nil {
			_ = backend.Close()
			return nil, nil, err
		}
		for name, n := range created {
			log.Infof("seeded %d %s", n, name)
		}
	}
	return store, backend, nil
}

// NewBus builds the notification bus with the configured auto-dismiss delays.
func NewBus(cfg *config.Config) *notify.Bus {
	n := cfg.Notifications
	return notify.NewBus(notify.WithDurations(notify.Durations{
		notify.Success: n.Success,
		notify.Info:    n.Info,
		notify.Warning: n.Warning,
		notify.Error:   n.Error,
	}))
}

// ExportSink picks where stored exports go: MinIO when configured, otherwise
// cfg.ExportDir. It returns nil when neither is set.
func ExportSink(ctx context.Context, cfg *config.Config) (tabular.Sink, error) {
	if cfg.MinIO.Enabled() {
		s, err := storage.NewMinIOStorage(ctx, &cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("export storage: %w", err)
		}
		log.Infof("exports stored in minio bucket %s", cfg.MinIO.Bucket)
		return s, nil
	}
	if cfg.ExportDir != "" {
		log.Infof("exports stored in %s", cfg.ExportDir)
		return tabular.DirSink{Dir: cfg.ExportDir}, nil
	}
	return nil, nil
}

// Deps are the collaborators of the HTTP router.
type Deps struct {
	Config *config.Config
	Store  *records.Store
	Bus    *notify.Bus
	Sink   tabular.Sink
	// Redis backs the shared rate limiter; nil uses the in-process one.
	Redis *redis.Client
	// Gatherer serves /metrics; nil means the default registry.
	Gatherer prometheus.Gatherer
}

var startTime = time.Now()

// NewRouter builds the gin engine with health, readiness, metrics, API docs
// and the admin API.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	r := gin.New()

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, "+middleware.OperatorHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && d.Redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(d.Redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx := c.Request.Context()
		ready := true
		deps := map[string]bool{}

		deps["storage"] = d.Store.Ping(ctx) == nil
		ready = ready && deps["storage"]

		if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis && cfg.Redis.Host != "" {
			deps["redis"] = d.Redis != nil && d.Redis.Ping(ctx).Err() == nil
			ready = ready && deps["redis"]
		}
		deps["exports"] = d.Sink != nil

		status, body := http.StatusOK, "ready"
		if !ready {
			status, body = http.StatusServiceUnavailable, "not_ready"
		}
		c.JSON(status, gin.H{"status": body, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	} else {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	handlers.RegisterSwagger(r)

	var opts []handler.Option
	if d.Sink != nil {
		opts = append(opts, handler.WithExportSink(d.Sink))
	}
	handler.RegisterAdminRoutes(r, handler.New(d.Store, d.Bus, opts...))
	return r
}
