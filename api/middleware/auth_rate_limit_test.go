package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
)

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (f *fakeRateStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

func loginRequest(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"kasir","password":"x"}`))
	req.RemoteAddr = ip + ":5678"
	return req
}

func TestAuthRateLimitBlocksAfterLimit(t *testing.T) {
	store := newFakeRateStore()
	policy := NewAuthRateLimitPolicy("login", 15*time.Minute, 5)
	handler := AuthRateLimit(policy, store, nil)(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("10.0.0.1"))
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200 got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("10.0.0.1"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeRateLimit) {
		t.Fatalf("unexpected error code %s", payload.Error.Code)
	}

	other := httptest.NewRecorder()
	handler.ServeHTTP(other, loginRequest("10.0.0.2"))
	if other.Code != http.StatusOK {
		t.Fatalf("other ip should not be limited, got %d", other.Code)
	}
}

func TestAuthRateLimitIgnoresClientForwardedFor(t *testing.T) {
	store := newFakeRateStore()
	handler := AuthRateLimit(NewAuthRateLimitPolicy("login", time.Minute, 1), store, nil)(okHandler())

	first := loginRequest("10.0.0.1")
	first.Header.Set("X-Forwarded-For", "203.0.113.7")
	handler.ServeHTTP(httptest.NewRecorder(), first)

	second := loginRequest("10.0.0.1")
	second.Header.Set("X-Forwarded-For", "198.51.100.9")
	second.Header.Set("X-Real-IP", "198.51.100.10")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, second)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("rotating forwarded headers must not reset the counter, got %d", rec.Code)
	}
	if store.counts["rl:ip:login:10.0.0.1"] != 2 || len(store.counts) != 1 {
		t.Fatalf("expected one counter keyed by peer address, got %v", store.counts)
	}
}

func TestAuthRateLimitBehindTrustedProxy(t *testing.T) {
	store := newFakeRateStore()
	handler := chimw.RealIP(AuthRateLimit(NewAuthRateLimitPolicy("login", time.Minute, 5), store, nil)(okHandler()))

	req := loginRequest("10.0.0.1")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if store.counts["rl:ip:login:203.0.113.7"] != 1 {
		t.Fatalf("expected counter keyed by proxied ip, got %v", store.counts)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	store := newFakeRateStore()
	handler := AuthRateLimit(NewAuthRateLimitPolicy("login", 0, 5), store, nil)(okHandler())
	handler.ServeHTTP(httptest.NewRecorder(), loginRequest("10.0.0.1"))
	if len(store.counts) != 0 {
		t.Fatalf("disabled policy should not touch the store")
	}
}
