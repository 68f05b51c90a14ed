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

	"github.com/SscSPs/couple_finance_app/internal/adapters/openai"
	"github.com/SscSPs/couple_finance_app/internal/adapters/pdf"
	"github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/couple_finance_app/internal/core/services"
	"github.com/SscSPs/couple_finance_app/internal/handlers"
	"github.com/SscSPs/couple_finance_app/internal/middleware"
	"github.com/SscSPs/couple_finance_app/internal/platform/config"
	"github.com/SscSPs/couple_finance_app/internal/repositories/cache"
	"github.com/SscSPs/couple_finance_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/couple_finance_app/internal/scheduler"
	"github.com/SscSPs/couple_finance_app/internal/utils"
	"github.com/SscSPs/couple_finance_app/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title Couple Finance API
// @version 1.0
// @description Shared expenses, balances and goals for a household group.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, falling back to in-memory stores", slog.String("error", err.Error()))
			redisClient = nil
		} else {
			defer redisClient.Close()
			logger.Info("Connected to Redis")
		}
	}

	var cacheStore repositories.CacheStore = cache.NewMemoryStore()
	if redisClient != nil {
		cacheStore = cache.NewRedisStore(redisClient, "cfa:")
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	containerOpts := []services.ContainerOption{
		services.WithRenderer(pdf.NewStatementRenderer("Finanzas en Pareja")),
		services.WithCacheStore(cacheStore),
	}
	if cfg.OpenAIAPIKey != "" {
		containerOpts = append(containerOpts, services.WithCompletionClient(
			openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.OpenAITimeout),
		))
	}
	serviceContainer := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), containerOpts...)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := middleware.RegisterValidators(); err != nil {
		logger.Error("Failed to register validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	globalLimiter, err := middleware.NewLimiter(cfg.GlobalRateLimit, "cfa_global", redisClient)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}
	loginLimiter, err := middleware.NewLimiter(cfg.LoginRateLimit, "cfa_login", redisClient)
	if err != nil {
		logger.Error("Failed to create login rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.RateLimit(globalLimiter),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer,
		handlers.WithLoginRateLimit(middleware.RateLimit(loginLimiter)),
		handlers.WithPosthog(posthogClient),
	)

	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		sched, err = scheduler.NewScheduler(scheduler.Config{
			ScheduleTimes: cfg.SchedulerTimes,
			WorkerCount:   cfg.SchedulerWorkers,
			QueueSize:     cfg.SchedulerQueueSize,
			JobTimeout:    cfg.SchedulerJobTimeout,
			RunOnStartup:  cfg.SchedulerRunOnStartup,
			JobProvider:   scheduler.RecurringJobProvider(serviceContainer.Recurring, time.Now, logger),
			Logger:        logger,
		})
		if err != nil {
			logger.Error("Failed to create scheduler", slog.String("error", err.Error()))
			os.Exit(1)
		}
		sched.Start()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	if sched != nil {
		sched.Shutdown(10 * time.Second)
	}
}
