package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func okHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}

func serveSearch(h http.Handler, clientID, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=heat", nil)
	req.RemoteAddr = remote
	if clientID != "" {
		req.Header.Set(ClientIDHeader, clientID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestClientRateLimiter_AllowsWithinLimit(t *testing.T) {
	rl := NewClientRateLimiter(t.Context(), rate.Every(time.Second), 5)
	handler := ClientIDMiddleware()(rl.Middleware(okHandler()))

	for i := 0; i < 5; i++ {
		if rec := serveSearch(handler, "abc", "192.168.1.1:12345"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestClientRateLimiter_BlocksExcessRequests(t *testing.T) {
	rl := NewClientRateLimiter(t.Context(), rate.Every(time.Second), 2)
	handler := ClientIDMiddleware()(rl.Middleware(okHandler()))

	for i := 0; i < 2; i++ {
		if rec := serveSearch(handler, "abc", "10.0.0.1:12345"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := serveSearch(handler, "abc", "10.0.0.1:12345")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "too many requests" {
		t.Fatalf("unexpected error body: %v", body)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestClientRateLimiter_SeparateClients(t *testing.T) {
	rl := NewClientRateLimiter(t.Context(), rate.Every(time.Second), 1)
	handler := ClientIDMiddleware()(rl.Middleware(okHandler()))

	// Same IP, different client ids: independent budgets.
	if rec := serveSearch(handler, "one", "10.0.0.1:1"); rec.Code != http.StatusOK {
		t.Fatalf("client one: expected 200, got %d", rec.Code)
	}
	if rec := serveSearch(handler, "two", "10.0.0.1:1"); rec.Code != http.StatusOK {
		t.Fatalf("client two: expected 200, got %d", rec.Code)
	}
	if rec := serveSearch(handler, "one", "10.0.0.1:1"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("client one again: expected 429, got %d", rec.Code)
	}
}

func TestClientRateLimiter_FallsBackToIP(t *testing.T) {
	rl := NewClientRateLimiter(t.Context(), rate.Every(time.Second), 1)
	handler := rl.HandlerFunc(okHandler())

	if rec := serveSearch(handler, "", "10.0.0.1:1"); rec.Code != http.StatusOK {
		t.Fatalf("first IP: expected 200, got %d", rec.Code)
	}
	if rec := serveSearch(handler, "", "10.0.0.2:1"); rec.Code != http.StatusOK {
		t.Fatalf("second IP: expected 200, got %d", rec.Code)
	}
	if rec := serveSearch(handler, "", "10.0.0.1:2"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("first IP again: expected 429, got %d", rec.Code)
	}
}

func TestClientRateLimiter_EvictsIdle(t *testing.T) {
	rl := NewClientRateLimiter(t.Context(), rate.Every(time.Second), 1)
	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.getLimiter("client:a")
	rl.getLimiter("client:b")

	now = now.Add(limiterIdleTTL / 2)
	rl.getLimiter("client:b")
	now = now.Add(limiterIdleTTL/2 + time.Second)
	rl.evictIdle()

	if got := rl.size(); got != 1 {
		t.Fatalf("expected 1 live limiter, got %d", got)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"remote addr", "", "", "192.168.1.1:12345", "192.168.1.1"},
		{"x-forwarded-for single", "10.0.0.1", "", "127.0.0.1:80", "10.0.0.1"},
		{"x-forwarded-for chain", "10.0.0.1, 10.0.0.2", "", "127.0.0.1:80", "10.0.0.1"},
		{"x-real-ip", "", "10.0.0.5", "127.0.0.1:80", "10.0.0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := getClientIP(req); got != tt.want {
				t.Fatalf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
