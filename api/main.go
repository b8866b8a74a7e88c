package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/config"
	"github.com/rogerio-castellano/product-catalog/internal/db"
	"github.com/rogerio-castellano/product-catalog/internal/http/ban"
	"github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	mw "github.com/rogerio-castellano/product-catalog/internal/http/middleware"
	rl "github.com/rogerio-castellano/product-catalog/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-catalog/internal/http/router"
	"github.com/rogerio-castellano/product-catalog/internal/logging"
	"github.com/rogerio-castellano/product-catalog/internal/observability"
	"github.com/rogerio-castellano/product-catalog/internal/redissvc"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/rogerio-castellano/product-catalog/internal/service"
)

// @title Product Catalog API
// @version 1.0
// @description REST API for managing a product catalog with soft delete.
// @host localhost:8080
// @BasePath /api
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("could not load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.Log.Format, cfg.Log.Level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	store, metricsRepo, closeStore, err := openStore(ctx, cfg, metrics, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	handlers.SetLogger(logger)
	handlers.SetProductService(service.NewProductService(store, logger))
	handlers.SetMetricsRepo(metricsRepo)

	mwCfg := mw.Config{
		Logger:     logger,
		Metrics:    metrics,
		Timeout:    cfg.Server.RequestTimeout,
		Production: cfg.IsProduction(),
	}

	if cfg.RateLimit.Enabled {
		limiter := rl.NewVisitorLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL)
		go limiter.StartVisitorCleanupLoop(ctx, time.Minute)
		mwCfg.Limiter = limiter
	}

	if cfg.Redis.Addr != "" {
		rs, err := redissvc.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rs.Close()

		tracker := ban.NewTracker(rs, ban.Options{
			MaxStrikes:   cfg.RateLimit.MaxStrikes,
			StrikeWindow: cfg.RateLimit.StrikeWindow,
			BanDuration:  cfg.RateLimit.BanDuration,
		}, logger)
		go tracker.StartDailyBanSummary(ctx)
		if mwCfg.Limiter != nil {
			mwCfg.Bans = tracker
		}
	} else {
		logger.Info("redis not configured, client bans disabled")
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: router.NewRouter(router.Options{
			Middlewares:    mw.Stack(mwCfg),
			MetricsHandler: metrics.Handler(),
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", slog.String("addr", srv.Addr), slog.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (repo.ProductStore, repo.MetricsRepository, func(), error) {
	if cfg.Storage.Driver == "memory" {
		logger.Warn("using in-memory storage, data is lost on restart")
		products := repo.NewInMemoryProductRepository()
		counters := repo.NewInMemoryMetricsRepository()
		counters.SetRepositories(products)
		return products, counters, func() {}, nil
	}

	database, err := db.Connect(ctx, cfg.Database.URL, db.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	if err := db.Migrate(ctx, database); err != nil {
		database.Close()
		return nil, nil, nil, err
	}

	if err := metrics.RegisterDBStats(database, "catalog"); err != nil {
		logger.Warn("could not register database pool metrics", slog.Any("error", err))
	}

	closeDB := func() {
		if err := database.Close(); err != nil {
			logger.Error("closing database", slog.Any("error", err))
		}
	}
	return repo.NewPostgresProductRepository(database), repo.NewPostgresMetricsRepository(database), closeDB, nil
}
