package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/simkemas/simkemas-backend/api/controllers"
	"github.com/simkemas/simkemas-backend/api/middleware"
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
	"github.com/simkemas/simkemas-backend/pkg/config"
	"github.com/simkemas/simkemas-backend/pkg/db"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	"github.com/simkemas/simkemas-backend/pkg/logger"
	pkgredis "github.com/simkemas/simkemas-backend/pkg/redis"
)

// redisStore is the slice of the Redis client the HTTP layer touches.
type redisStore interface {
	pkgredis.IdempotencyStore
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	Ping(context.Context) error
}

var (
	counterDesk    = []enums.Role{enums.RoleAdmin, enums.RoleKasir}
	orderReaders   = []enums.Role{enums.RoleAdmin, enums.RoleKasir, enums.RoleManajer}
	financeDesk    = []enums.Role{enums.RoleAdmin, enums.RoleManajer, enums.RoleKasir}
	designDesk     = []enums.Role{enums.RoleAdmin, enums.RoleDesainer}
	productionDesk = []enums.Role{enums.RoleAdmin, enums.RoleOperator}
	packagingAdmin = []enums.Role{enums.RoleAdmin, enums.RoleManajer}
	admins         = []enums.Role{enums.RoleAdmin}
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient redisStore,
	sessions session.AccessSessionChecker,
	gatherer prometheus.Gatherer,
	authService auth.Service,
	userService users.Service,
	customerService customers.Service,
	productService products.Service,
	materialService materials.Service,
	packagingService packaging.Service,
	orderService orders.Service,
	workflowService workflow.Service,
	pickupService pickup.Service,
	inventoryService inventory.Service,
	financeService finance.Service,
) http.Handler {
	r := chi.NewRouter()
	if cfg.App.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
	)

	var redisPinger controllers.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Get("/me", controllers.AuthMe(authService, logg))
			r.Post("/logout", controllers.AuthLogout(authService, logg))
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, admins...))
			r.Get("/", controllers.UsersList(userService, logg))
			r.Post("/", controllers.UsersCreate(userService, logg))
			r.Put("/{id}", controllers.UsersUpdate(userService, logg))
			r.Delete("/{id}", controllers.UsersDelete(userService, logg))
			r.Post("/{id}/restore", controllers.UsersRestore(userService, logg))
			r.Delete("/{id}/permanent", controllers.UsersDeletePermanent(userService, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, counterDesk...))
			r.Get("/", controllers.CustomersList(customerService, logg))
			r.Post("/", controllers.CustomersCreate(customerService, logg))
			r.Put("/{id}", controllers.CustomersUpdate(customerService, logg))
			r.Delete("/{id}", controllers.CustomersDelete(customerService, logg))
			r.Post("/{id}/restore", controllers.CustomersRestore(customerService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, counterDesk...))
			r.Get("/customer/{customerId}", controllers.ProductsByCustomer(productService, logg))
			r.Post("/customer/{customerId}", controllers.ProductsCreate(productService, logg))
			r.Put("/{id}", controllers.ProductsUpdate(productService, logg))
			r.Delete("/{id}", controllers.ProductsDelete(productService, logg))
			r.Post("/{id}/restore", controllers.ProductsRestore(productService, logg))
		})

		r.Route("/materials", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, productionDesk...))
			r.Get("/", controllers.MaterialsList(materialService, logg))
			r.Post("/", controllers.MaterialsCreate(materialService, logg))
			r.Put("/{id}", controllers.MaterialsRename(materialService, logg))
			r.Delete("/{id}", controllers.MaterialsDelete(materialService, logg))
			r.Post("/items", controllers.MaterialItemsCreate(materialService, logg))
			r.Put("/items/{id}", controllers.MaterialItemsUpdate(materialService, logg))
			r.Delete("/items/{id}", controllers.MaterialItemsDelete(materialService, logg))
		})

		r.Route("/packagings", func(r chi.Router) {
			r.With(middleware.RequireRoles(logg, financeDesk...)).Get("/", controllers.PackagingList(packagingService, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(logg, packagingAdmin...))
				r.Post("/types", controllers.PackagingCreateType(packagingService, logg))
				r.Put("/types/{id}", controllers.PackagingRenameType(packagingService, logg))
				r.Delete("/types/{id}", controllers.PackagingDeleteType(packagingService, logg))
				r.Post("/sizes", controllers.PackagingCreateSize(packagingService, logg))
				r.Put("/sizes/{id}", controllers.PackagingUpdateSize(packagingService, logg))
				r.Delete("/sizes/{id}", controllers.PackagingDeleteSize(packagingService, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.RequireRoles(logg, orderReaders...)).Get("/", controllers.OrdersList(orderService, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(logg, counterDesk...))
				r.Post("/", controllers.OrdersCreate(orderService, logg))
				r.Get("/{id}", controllers.OrdersDetail(orderService, logg))
			})
		})

		r.Route("/designs", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, designDesk...))
			r.Get("/queue", controllers.DesignQueue(workflowService, logg))
			r.Get("/history", controllers.DesignHistory(workflowService, logg))
			r.Put("/{id}/status", controllers.DesignUpdateStatus(workflowService, logg))
		})

		r.Route("/production", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, productionDesk...))
			r.Get("/queue", controllers.ProductionQueue(workflowService, logg))
			r.Get("/history", controllers.ProductionHistory(workflowService, logg))
			r.Put("/{id}/status", controllers.ProductionUpdateStatus(workflowService, logg))
		})

		r.Route("/pickup", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, orderReaders...))
			r.Get("/", controllers.PickupQueue(pickupService, logg))
			r.Post("/{id}/complete", controllers.PickupComplete(pickupService, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, productionDesk...))
			r.Get("/stocks", controllers.InventoryStocks(inventoryService, logg))
			r.Get("/logs", controllers.InventoryLogs(inventoryService, logg))
			r.Post("/update", controllers.InventoryUpdate(inventoryService, logg))
		})

		r.Route("/finance", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, financeDesk...))
			r.Get("/", controllers.FinanceReport(financeService, logg))
			r.Get("/export", controllers.FinanceExport(financeService, logg))
			r.Post("/manual", controllers.FinanceManual(financeService, logg))
		})
	})

	return r
}
