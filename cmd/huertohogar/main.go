package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/huertohogar/huertohogar/internal/app"
	"github.com/huertohogar/huertohogar/internal/audit"
	audithttp "github.com/huertohogar/huertohogar/internal/audit/http"
	"github.com/huertohogar/huertohogar/internal/auth"
	"github.com/huertohogar/huertohogar/internal/cities"
	"github.com/huertohogar/huertohogar/internal/observability"
	"github.com/huertohogar/huertohogar/internal/orders"
	"github.com/huertohogar/huertohogar/internal/platform/cache"
	"github.com/huertohogar/huertohogar/internal/platform/db"
	"github.com/huertohogar/huertohogar/internal/regions"
	"github.com/huertohogar/huertohogar/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()
	recorder := audit.NewRecorder(asynqClient, logger)

	metrics := observability.NewMetrics()

	tokens := auth.NewTokenService(auth.TokenConfig{Secret: cfg.JWTSecret, TTL: cfg.JWTTTL})
	hasher := auth.NewHasher(cfg.BcryptCost)
	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, hasher, tokens, recorder)
	authHandler := auth.NewHandler(logger, authService, tokens, metrics)
	guard := auth.Middleware{Tokens: tokens, Logger: logger}

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, authService, recorder, logger)
	usersHandler := users.NewHandler(logger, usersService, authService, guard)

	catalogCache := cache.NewCache(redisClient, cfg.CacheTTL)

	regionsRepo := regions.NewRepository(dbpool)
	regionsService := regions.NewService(regionsRepo, catalogCache)
	regionsHandler := regions.NewHandler(logger, regionsService, guard)

	citiesRepo := cities.NewRepository(dbpool)
	citiesService := cities.NewService(citiesRepo, regionsService, catalogCache)
	citiesHandler := cities.NewHandler(logger, citiesService, guard)

	ordersRepo := orders.NewRepository(dbpool)
	ordersService := orders.NewService(ordersRepo, usersService)
	ordersHandler := orders.NewHandler(logger, ordersService, guard)

	auditService := audit.NewService(audit.NewWriter(dbpool))
	auditHandler := audithttp.NewHandler(logger, auditService, guard)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		AuthHandler:    authHandler,
		UsersHandler:   usersHandler,
		RegionsHandler: regionsHandler,
		CitiesHandler:  citiesHandler,
		OrdersHandler:  ordersHandler,
		AuditHandler:   auditHandler,
		Pool:           dbpool,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
