package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/simkemas/simkemas-backend/internal/customers"
	"github.com/simkemas/simkemas-backend/internal/orders"
	"github.com/simkemas/simkemas-backend/internal/packaging"
	pkgAuth "github.com/simkemas/simkemas-backend/pkg/auth"
	"github.com/simkemas/simkemas-backend/pkg/auth/session"
	"github.com/simkemas/simkemas-backend/pkg/config"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	"github.com/simkemas/simkemas-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessions struct{}

func (stubSessions) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

type fakeRedis struct {
	mu       sync.Mutex
	counters map[string]int64
	values   map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{counters: map[string]int64{}, values: map[string]string{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key], nil
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	switch v := value.(type) {
	case string:
		f.values[key] = v
	case []byte:
		f.values[key] = string(v)
	}
	return true, nil
}

func (f *fakeRedis) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func (f *fakeRedis) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeRedis) Ping(context.Context) error {
	return nil
}

type stubOrders struct {
	orders.Service
}

func (stubOrders) List(context.Context, orders.ListInput) (*orders.ListResult, error) {
	return &orders.ListResult{Orders: []orders.OrderView{}}, nil
}

type stubCustomers struct {
	customers.Service
}

func (stubCustomers) List(context.Context, customers.ListInput) ([]customers.CustomerView, error) {
	return []customers.CustomerView{}, nil
}

type stubPackaging struct {
	packaging.Service
}

func (stubPackaging) ListTypes(context.Context) ([]packaging.TypeView, error) {
	return []packaging.TypeView{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "simkemas", ExpirationMinutes: 60},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:  15 * time.Minute,
			LoginIPLimit: 5,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
}

func newTestRouter(cfg *config.Config, store redisStore) http.Handler {
	registry := prometheus.NewRegistry()
	metrics.NewWorkflow(registry)
	return NewRouter(
		cfg,
		nil,
		stubPinger{},
		store,
		stubSessions{},
		registry,
		nil,
		nil,
		stubCustomers{},
		nil,
		nil,
		stubPackaging{},
		stubOrders{},
		nil,
		nil,
		nil,
		nil,
	)
}

func tokenFor(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "tester",
		Role:     role,
		JTI:      session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func serve(router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig(), newFakeRedis())

	resp := serve(router, http.MethodGet, "/health/live", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Simkemas-Env"); got != "test" {
		t.Fatalf("expected env header test got %q", got)
	}
}

func TestHealthReady(t *testing.T) {
	router := newTestRouter(testConfig(), newFakeRedis())

	resp := serve(router, http.MethodGet, "/health/ready", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestMetricsEndpointExposesWorkflowCollectors(t *testing.T) {
	router := newTestRouter(testConfig(), newFakeRedis())

	resp := serve(router, http.MethodGet, "/metrics", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAPIRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), newFakeRedis())

	resp := serve(router, http.MethodGet, "/api/customers", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRoleGates(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, newFakeRedis())

	cases := []struct {
		name   string
		role   enums.Role
		method string
		path   string
		want   int
	}{
		{"kasir lists customers", enums.RoleKasir, http.MethodGet, "/api/customers", http.StatusOK},
		{"operator cannot list customers", enums.RoleOperator, http.MethodGet, "/api/customers", http.StatusForbidden},
		{"manajer lists orders", enums.RoleManajer, http.MethodGet, "/api/orders", http.StatusOK},
		{"desainer cannot list orders", enums.RoleDesainer, http.MethodGet, "/api/orders", http.StatusForbidden},
		{"manajer cannot create orders", enums.RoleManajer, http.MethodPost, "/api/orders", http.StatusForbidden},
		{"kasir reads packaging", enums.RoleKasir, http.MethodGet, "/api/packagings", http.StatusOK},
		{"kasir cannot write packaging", enums.RoleKasir, http.MethodPost, "/api/packagings/types", http.StatusForbidden},
		{"kasir cannot manage users", enums.RoleKasir, http.MethodGet, "/api/users", http.StatusForbidden},
		{"kasir cannot open design queue", enums.RoleKasir, http.MethodGet, "/api/designs/queue", http.StatusForbidden},
		{"desainer cannot open production queue", enums.RoleDesainer, http.MethodGet, "/api/production/queue", http.StatusForbidden},
		{"operator cannot see finance", enums.RoleOperator, http.MethodGet, "/api/finance", http.StatusForbidden},
		{"kasir cannot adjust inventory", enums.RoleKasir, http.MethodPost, "/api/inventory/update", http.StatusForbidden},
		{"operator cannot complete pickup", enums.RoleOperator, http.MethodPost, "/api/pickup/" + uuid.NewString() + "/complete", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := serve(router, tc.method, tc.path, tokenFor(t, cfg, tc.role))
			if resp.Code != tc.want {
				t.Fatalf("expected %d got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestLoginIsRateLimitedPerIP(t *testing.T) {
	router := newTestRouter(testConfig(), newFakeRedis())

	var last int
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
		req.RemoteAddr = "10.0.0.7:5555"
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		last = resp.Code
		if i < 5 && resp.Code == http.StatusTooManyRequests {
			t.Fatalf("attempt %d should not be limited", i+1)
		}
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on sixth attempt got %d", last)
	}
}
