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

	"github.com/simkemas/simkemas-backend/internal/cron"
	"github.com/simkemas/simkemas-backend/internal/finance"
	"github.com/simkemas/simkemas-backend/internal/orders"
	"github.com/simkemas/simkemas-backend/pkg/codegen"
	"github.com/simkemas/simkemas-backend/pkg/config"
	"github.com/simkemas/simkemas-backend/pkg/db"
	"github.com/simkemas/simkemas-backend/pkg/logger"
	"github.com/simkemas/simkemas-backend/pkg/metrics"
	"github.com/simkemas/simkemas-backend/pkg/migrate"
	"github.com/simkemas/simkemas-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "simkemas-scheduler"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "simkemas-scheduler",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	workflowMetrics := metrics.NewWorkflow(registry)
	jobMetrics := metrics.NewJobs(registry)

	cash, err := finance.NewLedger(finance.NewRepository(dbClient.DB()), workflowMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create cash ledger", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), cash, dbClient, codegen.Generator{}, workflowMetrics, logg)
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	jobs := cron.NewRegistry()
	audit, err := cron.NewPaymentAuditJob(orderService, logg, cfg.Scheduler.AuditFix)
	if err == nil {
		err = jobs.Register(audit)
	}
	if err != nil {
		logg.Error(ctx, "failed to register payment audit", err)
		os.Exit(1)
	}

	lock, err := cron.NewCycleLock(redisClient, redisClient.LockKey("scheduler", envName(cfg.App.Env)), cfg.Scheduler.Interval)
	if err != nil {
		logg.Error(ctx, "failed to create scheduler lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: jobs,
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Scheduler.Interval,
	})
	if err != nil {
		logg.Error(ctx, "failed to create scheduler", err)
		os.Exit(1)
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics listener stopped", err)
		}
	}()

	ctx = logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"interval":  cfg.Scheduler.Interval.String(),
		"audit_fix": cfg.Scheduler.AuditFix,
	})
	logg.Info(ctx, "starting scheduler")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "scheduler stopped unexpectedly", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
	logg.Info(ctx, "scheduler shutting down gracefully")
}

func envName(env string) string {
	if env == "" {
		return "local"
	}
	return env
}
