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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vivomercado/backend/api/routes"
	"github.com/vivomercado/backend/internal/auth"
	"github.com/vivomercado/backend/internal/categories"
	"github.com/vivomercado/backend/internal/favorites"
	"github.com/vivomercado/backend/internal/listings"
	"github.com/vivomercado/backend/internal/purchases"
	"github.com/vivomercado/backend/internal/questions"
	"github.com/vivomercado/backend/internal/reports"
	"github.com/vivomercado/backend/internal/users"
	"github.com/vivomercado/backend/pkg/auth/session"
	"github.com/vivomercado/backend/pkg/config"
	"github.com/vivomercado/backend/pkg/db"
	"github.com/vivomercado/backend/pkg/logger"
	"github.com/vivomercado/backend/pkg/metrics"
	"github.com/vivomercado/backend/pkg/migrate"
	"github.com/vivomercado/backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	purchaseMetrics := metrics.NewPurchaseMetrics(registry)

	gdb := dbClient.DB()
	usersRepo := users.NewRepository(gdb)
	listingsRepo := listings.NewRepository(gdb)
	purchasesRepo := purchases.NewRepository(gdb)
	questionsRepo := questions.NewRepository(gdb)
	favoritesRepo := favorites.NewRepository(gdb)
	categoriesRepo := categories.NewRepository(gdb)
	reportsRepo := reports.NewRepository(gdb)

	categoriesService, err := categories.NewService(categoriesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create categories service", err)
		os.Exit(1)
	}
	if err := categoriesService.Seed(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to seed categories", err)
		os.Exit(1)
	}

	listingsService, err := listings.NewService(listingsRepo, categoriesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create listings service", err)
		os.Exit(1)
	}

	purchasesService, err := purchases.NewService(
		purchasesRepo,
		dbClient,
		purchases.NewStockAdjuster(),
		purchases.NewListingReader(),
		purchaseMetrics,
		cfg.FeatureFlags.EnforceStatusTransitions,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchases service", err)
		os.Exit(1)
	}

	questionsService, err := questions.NewService(questionsRepo, dbClient, listingsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create questions service", err)
		os.Exit(1)
	}

	favoritesService, err := favorites.NewService(favoritesRepo, listingsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(
		usersRepo,
		dbClient,
		users.NewListingDeactivator(listingsRepo),
		sessionManager,
		cfg.Password,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(usersRepo, sessionManager, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(reportsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		sessionManager,
		httpMetrics,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		routes.Services{
			Auth:       authService,
			Users:      usersService,
			Listings:   listingsService,
			Purchases:  purchasesService,
			Questions:  questionsService,
			Favorites:  favoritesService,
			Categories: categoriesService,
			Reports:    reportsService,
		},
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server stopped")
	}
}
