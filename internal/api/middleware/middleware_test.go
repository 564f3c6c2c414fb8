package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequestID(t *testing.T) {
	supplied := uuid.NewString()
	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"missing", "", false},
		{"valid uuid", supplied, true},
		{"not a uuid", "../../etc/passwd", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if _, err := uuid.Parse(seen); err != nil {
				t.Fatalf("expected a uuid request id, got %q", seen)
			}
			if got := rec.Header().Get(RequestIDHeader); got != seen {
				t.Errorf("header %q does not match context %q", got, seen)
			}
			if tt.keep && seen != tt.header {
				t.Errorf("expected supplied id %q, got %q", tt.header, seen)
			}
			if !tt.keep && seen == tt.header {
				t.Errorf("expected a generated id, got %q", seen)
			}
		})
	}
}

func TestBearerAuth(t *testing.T) {
	h := BearerAuth("s3cret")(okHandler())
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic s3cret", http.StatusUnauthorized},
		{"wrong key", "Bearer nope", http.StatusUnauthorized},
		{"ok", "Bearer s3cret", http.StatusNoContent},
		{"scheme is case insensitive", "bearer s3cret", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestBearerAuth_Disabled(t *testing.T) {
	rec := httptest.NewRecorder()
	BearerAuth("")(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected pass-through, got %d", rec.Code)
	}
}

func TestRateLimiter_AllowAndCleanup(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 2)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("burst should allow two requests")
	}
	if rl.Allow("a") {
		t.Fatal("third request should be limited")
	}
	if !rl.Allow("b") {
		t.Fatal("other keys have their own limiter")
	}

	now = now.Add(5 * time.Minute)
	rl.Allow("b")
	if n := rl.Cleanup(time.Minute); n != 1 {
		t.Fatalf("expected 1 stale limiter removed, got %d", n)
	}
	if rl.Len() != 1 {
		t.Errorf("expected 1 limiter left, got %d", rl.Len())
	}
}
