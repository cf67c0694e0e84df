package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/parking-registry/internal/cache"
	"github.com/iliyamo/parking-registry/internal/config"
	"github.com/iliyamo/parking-registry/internal/events"
	"github.com/iliyamo/parking-registry/internal/handler"
	"github.com/iliyamo/parking-registry/internal/logger"
	"github.com/iliyamo/parking-registry/internal/metrics"
	"github.com/iliyamo/parking-registry/internal/middleware"
	"github.com/iliyamo/parking-registry/internal/repository"
	"github.com/iliyamo/parking-registry/internal/router"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	var autoMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, *cfg, autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, autoMigrate bool) error {
	log := logger.Named("server")

	b, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer b.Close()
	if autoMigrate {
		if err := b.migrate(ctx); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(reg); err != nil {
		return err
	}

	// Redis serves both the catalog cache and the rate limiter; without it
	// the cache stays in process and requests are not limited.
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()
	var rdb *redis.Client
	if config.RedisWanted(cacheCfg, rlCfg) {
		redisCfg := config.LoadRedisConfig()
		client, err := redisCfg.Connect(ctx)
		if err != nil {
			log.Warn("redis unreachable; using in-memory catalog cache and no rate limiting",
				zap.String("addr", redisCfg.Addr), zap.Error(err))
		} else {
			rdb = client
			defer rdb.Close()
		}
	}
	var catalogCache cache.Client = cache.NewMemory(cacheCfg.Prefix, cfg.CatalogCacheTTL)
	if cacheCfg.Driver == "redis" && rdb != nil {
		catalogCache = cache.NewRedis(rdb, cacheCfg.Prefix, cfg.CatalogCacheTTL)
	}

	var pub events.Publisher = events.Noop{}
	if cfg.EventsEnabled {
		pub = events.NewAMQPPublisher(cfg.RabbitMQURL)
	}
	opts := []repository.Option{
		repository.WithPublisher(pub),
		repository.WithLogger(logger.Named("repository")),
	}

	checks := map[string]handler.Pinger{}
	if b.db != nil {
		checks["database"] = b.db
	}
	if rdb != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLog(logger.Named("http")))

	limiter := middleware.NewTokenBucket(rlCfg, rdb)
	router.RegisterRoutes(e, &handler.HealthHandler{Checks: checks}, reg)
	router.RegisterRegistry(e, handler.NewRegistryHandler(
		repository.NewLotRepo(b.store, opts...),
		repository.NewSpotRepo(b.store, opts...),
		repository.NewAcceptedMethodRepo(b.store, opts...),
		repository.NewScheduleRepo(b.store, opts...),
		repository.NewPaymentRepo(b.store, opts...),
	), limiter)
	router.RegisterCatalog(e, handler.NewCatalogHandler(
		repository.NewCatalogRepo(b.store, catalogCache, cfg.CatalogCacheTTL, opts...),
	), limiter)
	router.RegisterUsers(e, handler.NewUserHandler(
		repository.NewUserRepo(b.store, cfg.BcryptCost, opts...),
	), limiter)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("store", cfg.StoreDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	if cfg.EventsEnabled {
		g.Go(func() error {
			return events.RunAuditConsumer(gctx, cfg.RabbitMQURL, logger.Named("audit"))
		})
	}

	err = g.Wait()
	log.Info("stopped")
	return err
}
