package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/config"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/handler"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/health"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/infra/decisionrecorder"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/infra/repository"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/infra/scheduler"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/observability/logging"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/observability/metrics"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/observability/middleware"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/service/dispatch"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/service/pending"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/service/schedule"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/service/throttle"
)

// Version is set via ldflags at build time
var Version = "dev"

const serviceModule = logging.Module("engagement-notifications")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	engagementMetrics, err := metrics.NewEngagementMetrics()
	if err != nil {
		slog.Error("failed to initialize engagement metrics", slog.String("error", err.Error()))
		return 1
	}

	// InfluxDB locally, BigQuery under the gcloud tag
	recorder, err := decisionrecorder.NewRecorder(ctx, decisionrecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize decision recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close decision recorder", slog.String("error", err.Error()))
		}
	}()

	taskQueue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize task queue", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("task queue cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	redisClient, err := initRedis(ctx, cfg.Redis)
	if err != nil {
		return 1
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	keyPrefix := repository.WithKeyPrefix(cfg.Redis.KeyPrefix)
	pendingRepo := repository.NewPendingRepository(redisClient, keyPrefix, repository.WithPendingTTL(cfg.Redis.PendingTTL))
	stateRepo := repository.NewUserStateRepository(redisClient, keyPrefix)

	var passLock domain.PassLock
	switch cfg.Engagement.PassLockBackend {
	case config.PassLockMemory:
		passLock = repository.NewMemoryPassLock()
	default:
		passLock = repository.NewRedisPassLock(redisClient, cfg.Engagement.PassLockTTL, keyPrefix)
	}

	loc := cfg.Engagement.DefaultLocation

	evaluator := throttle.NewEvaluator(pendingRepo, pending.NewClassifier(), engagementMetrics)
	dispatcher := dispatch.NewDispatcher(
		pendingRepo,
		taskQueue,
		evaluator,
		stateRepo,
		passLock,
		engagementMetrics,
		dispatch.WithDefaultLocation(loc),
	)
	orchestrator := schedule.NewOrchestrator(
		stateRepo,
		dispatcher,
		evaluator,
		passLock,
		engagementMetrics,
		schedule.WithDefaultLocation(loc),
		schedule.WithDecisionRecorder(recorder),
	)

	engagementHandler := handler.NewEngagementHandler(evaluator, orchestrator, stateRepo, loc)
	notificationHandler := handler.NewNotificationHandler(dispatcher)

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.Engagement.RateLimitPerSecond), cfg.Engagement.RateLimitBurst)

	schedulerOpts := []scheduler.Option{scheduler.WithSweeper(rateLimiter)}
	if memQueue, ok := taskQueue.(*taskqueue.MemoryQueue); ok {
		schedulerOpts = append(schedulerOpts, scheduler.WithLocalDelivery(memQueue, dispatcher))
	}

	sched := scheduler.New(scheduler.Config{
		DailyWindowSpec: cfg.Engagement.DailyWindowCron,
		Location:        loc,
	}, orchestrator, schedulerOpts...)
	if err := sched.Start(logging.WithModule(ctx, logging.Module("scheduler"))); err != nil {
		slog.Error("failed to start scheduler", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer stopCancel()
		sched.Stop(stopCtx)
	}()

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      serviceModule,
		TracerName:  "github.com/KasumiMercury/primind-engagement-notifications/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(Version, health.WithRedis(redisClient))
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	v1 := r.Group("/api/v1")
	{
		api := v1.Group("", rateLimiter.Limit())
		api.POST("/evaluate", engagementHandler.HandleEvaluate)
		api.POST("/users/:user_id/events", engagementHandler.HandleEvent)
		api.PUT("/users/:user_id/state", engagementHandler.HandlePutState)
		api.GET("/users/:user_id/notifications", notificationHandler.HandleList)
		api.POST("/users/:user_id/notifications", notificationHandler.HandleRegister)
		api.DELETE("/users/:user_id/notifications/:notification_id", notificationHandler.HandleCancel)

		// Delivery callbacks come from the task queue and are not rate limited.
		v1.POST("/notifications/delivered",
			middleware.OIDCAuth(cfg.Engagement.DeliveryAudience),
			notificationHandler.HandleDelivered,
		)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("default_timezone", cfg.Engagement.DefaultTimezone),
			slog.String("daily_window_cron", cfg.Engagement.DailyWindowCron),
			slog.String("pass_lock", cfg.Engagement.PassLockBackend),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

func initRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	redisClient := redis.NewClient(opts)

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		_ = redisClient.Close()
		return nil, err
	}

	slog.Info("redis connected",
		slog.String("addr", cfg.Addr),
		slog.Bool("tls", cfg.TLS),
	)

	return redisClient, nil
}
