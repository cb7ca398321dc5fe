package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIPRateLimiterAllowsWithinBurst(t *testing.T) {
	limiter := NewIPRateLimiter(2, time.Minute, 2, time.Minute)

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("expected first request to be allowed")
	}
	if !limiter.Allow("10.0.0.1") {
		t.Fatal("expected second request within burst to be allowed")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("expected third request to be rejected")
	}
}

func TestIPRateLimiterIsolatesKeys(t *testing.T) {
	limiter := NewIPRateLimiter(1, time.Minute, 1, time.Minute)

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("expected first key to be allowed")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Fatal("expected a different key to have its own budget")
	}
}

func TestLimitByIPReturns429(t *testing.T) {
	limiter := NewIPRateLimiter(1, time.Minute, 1, time.Minute)

	handler := LimitByIP(limiter)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:54321"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != want {
			t.Fatalf("request %d: expected status %d got %d", i+1, want, rec.Code)
		}
	}
}
