package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/app"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/config"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/database"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/pkg/logger"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/pkg/metrics"
)

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: backend=%s redis=%v minio=%v", cfg.Storage.Backend, cfg.Redis.Host != "", cfg.MinIO.Enabled())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, backend, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open record store: %v", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warnf("closing record store: %v", err)
		}
	}()

	// Redis for the shared rate limiter is optional; fall back to in-process.
	var rl *redis.Client
	if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis && cfg.Redis.Host != "" {
		if rl, err = database.NewRedisClient(ctx, cfg.Redis); err != nil {
			logger.Warnf("rate limiter: %v; using in-process limiter", err)
			rl = nil
		} else {
			defer rl.Close()
		}
	}

	sink, err := app.ExportSink(ctx, cfg)
	if err != nil {
		logger.Warnf("stored exports disabled: %v", err)
		sink = nil
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := app.NewRouter(app.Deps{Config: cfg, Store: store, Bus: app.NewBus(cfg), Sink: sink, Redis: rl})

	srv := &http.Server{
		Addr:        net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
		// no WriteTimeout: the notification stream is long-lived
	}
	go func() {
		logger.Infof("admin service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
