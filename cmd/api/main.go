package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/artisanhub/api/routes"
	"github.com/angelmondragon/artisanhub/internal/ar"
	"github.com/angelmondragon/artisanhub/internal/assets"
	"github.com/angelmondragon/artisanhub/internal/catalog"
	"github.com/angelmondragon/artisanhub/internal/classifier"
	"github.com/angelmondragon/artisanhub/internal/inventory"
	"github.com/angelmondragon/artisanhub/internal/marketing"
	"github.com/angelmondragon/artisanhub/internal/submission"
	"github.com/angelmondragon/artisanhub/internal/viewer"
	"github.com/angelmondragon/artisanhub/pkg/config"
	"github.com/angelmondragon/artisanhub/pkg/gateway"
	"github.com/angelmondragon/artisanhub/pkg/logger"
	"github.com/angelmondragon/artisanhub/pkg/metrics"
	"github.com/angelmondragon/artisanhub/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	deps := routes.Dependencies{}

	var store viewer.Store = viewer.NewMemoryStore()
	if cfg.Session.UsesRedis() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisStore, err := viewer.NewRedisStore(redisClient)
		if err != nil {
			return err
		}
		store = redisStore
		deps.Redis = redisClient
		deps.Limiter = redisClient
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Gatherer = registry
	loaderMetrics := metrics.NewLoaderMetrics(registry)

	backend, err := gateway.NewClient(
		cfg.Upstream.BaseURL,
		gateway.WithTimeout(cfg.Upstream.RequestTimeout),
		gateway.WithUserAgent(cfg.Upstream.UserAgent),
		gateway.WithErrorBodyLimit(cfg.Upstream.ErrorBodyLimit),
		gateway.WithLogger(logg),
	)
	if err != nil {
		return err
	}

	if deps.StrictLoader, err = assets.NewStrictLoader(backend, logg, loaderMetrics); err != nil {
		return err
	}
	if deps.BestEffortLoader, err = assets.NewBestEffortLoader(backend, logg, loaderMetrics); err != nil {
		return err
	}
	if deps.Sessions, err = viewer.NewService(store, cfg.Session.TTL, logg); err != nil {
		return err
	}
	if deps.Catalog, err = catalog.NewService(backend); err != nil {
		return err
	}
	if deps.Inventory, err = inventory.NewService(backend, logg); err != nil {
		return err
	}
	if deps.Marketing, err = marketing.NewService(backend, logg); err != nil {
		return err
	}
	if deps.Classifier, err = classifier.NewService(backend, cfg.Classifier, logg); err != nil {
		return err
	}
	if deps.Submission, err = submission.NewService(backend, cfg.Classifier.MaxImageBytes, logg); err != nil {
		return err
	}
	if deps.AR, err = ar.NewService(backend); err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"session_store": cfg.Session.Store,
		"upstream":      cfg.Upstream.BaseURL,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
