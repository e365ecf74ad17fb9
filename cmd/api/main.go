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
	"github.com/shopspring/decimal"

	"github.com/simkemas/simkemas-backend/api/routes"
	"github.com/simkemas/simkemas-backend/internal/auth"
	"github.com/simkemas/simkemas-backend/internal/customers"
	"github.com/simkemas/simkemas-backend/internal/finance"
	"github.com/simkemas/simkemas-backend/internal/inventory"
	"github.com/simkemas/simkemas-backend/internal/materials"
	"github.com/simkemas/simkemas-backend/internal/orders"
	"github.com/simkemas/simkemas-backend/internal/packaging"
	"github.com/simkemas/simkemas-backend/internal/pickup"
	"github.com/simkemas/simkemas-backend/internal/products"
	"github.com/simkemas/simkemas-backend/internal/users"
	"github.com/simkemas/simkemas-backend/internal/workflow"
	"github.com/simkemas/simkemas-backend/pkg/auth/session"
	"github.com/simkemas/simkemas-backend/pkg/codegen"
	"github.com/simkemas/simkemas-backend/pkg/config"
	"github.com/simkemas/simkemas-backend/pkg/db"
	"github.com/simkemas/simkemas-backend/pkg/logger"
	"github.com/simkemas/simkemas-backend/pkg/metrics"
	"github.com/simkemas/simkemas-backend/pkg/migrate"
	"github.com/simkemas/simkemas-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

type resourceLocker interface {
	WithLock(ctx context.Context, resource, id string, fn func(ctx context.Context) error) error
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "simkemas-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "simkemas-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	// Money leaves the API as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	var locks resourceLocker = redis.NoopLocker{}
	if cfg.Lock.Enabled {
		locker, err := redis.NewLocker(redisClient, cfg.Lock.TTL)
		if err != nil {
			logg.Error(ctx, "failed to create distributed locker", err)
			os.Exit(1)
		}
		locks = locker
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	workflowMetrics := metrics.NewWorkflow(registry)

	codes := codegen.Generator{}
	transitions := workflow.Transitions{Strict: cfg.FeatureFlags.StrictTransitions}

	userRepo := users.NewRepository(dbClient.DB())
	userService, err := users.NewService(userRepo, cfg.Password)
	must(ctx, logg, "users service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	must(ctx, logg, "auth service", err)

	customerService, err := customers.NewService(customers.NewRepository(dbClient.DB()), codes)
	must(ctx, logg, "customers service", err)

	productService, err := products.NewService(products.NewRepository(dbClient.DB()), codes)
	must(ctx, logg, "products service", err)

	materialService, err := materials.NewService(materials.NewRepository(dbClient.DB()), dbClient)
	must(ctx, logg, "materials service", err)

	packagingService, err := packaging.NewService(packaging.NewRepository(dbClient.DB()), dbClient)
	must(ctx, logg, "packaging service", err)

	financeRepo := finance.NewRepository(dbClient.DB())
	cashLedger, err := finance.NewLedger(financeRepo, workflowMetrics)
	must(ctx, logg, "cash ledger", err)
	financeService, err := finance.NewService(financeRepo, cashLedger, dbClient)
	must(ctx, logg, "finance service", err)

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	stockLedger, err := inventory.NewLedger(inventoryRepo, workflowMetrics)
	must(ctx, logg, "stock ledger", err)
	inventoryService, err := inventory.NewService(inventoryRepo, stockLedger, dbClient, locks)
	must(ctx, logg, "inventory service", err)

	orderRepo := orders.NewRepository(dbClient.DB())
	orderService, err := orders.NewService(orderRepo, cashLedger, dbClient, codes, workflowMetrics, logg)
	must(ctx, logg, "orders service", err)

	workflowService, err := workflow.NewService(workflow.Deps{
		Orders:      orderRepo,
		Views:       orderService,
		Stock:       stockLedger,
		Tx:          dbClient,
		Locks:       locks,
		Metrics:     workflowMetrics,
		Logger:      logg,
		Transitions: transitions,
	})
	must(ctx, logg, "workflow service", err)

	pickupService, err := pickup.NewService(pickup.Deps{
		Orders:         orderRepo,
		Views:          orderService,
		Cash:           cashLedger,
		Tx:             dbClient,
		Locks:          locks,
		Metrics:        workflowMetrics,
		Logger:         logg,
		Transitions:    transitions,
		RecordPayments: cfg.FeatureFlags.RecordPickupPayments,
	})
	must(ctx, logg, "pickup service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":                cfg.App.Env,
		"addr":               addr,
		"strict_transitions": cfg.FeatureFlags.StrictTransitions,
		"locks_enabled":      cfg.Lock.Enabled,
	})
	logg.Info(serverCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			registry,
			authService,
			userService,
			customerService,
			productService,
			materialService,
			packagingService,
			orderService,
			workflowService,
			pickupService,
			inventoryService,
			financeService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(serverCtx, "graceful shutdown failed", err)
		}
	}
}

func must(ctx context.Context, logg *logger.Logger, component string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to create "+component, err)
	os.Exit(1)
}
