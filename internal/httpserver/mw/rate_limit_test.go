package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestLimiterAllow(t *testing.T) {
	clk := &fakeClock{t: time.Date(2022, 5, 31, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 6, Now: clk.now})

	tests := []struct {
		name      string
		advance   time.Duration
		wantOK    bool
		wantRetry int
	}{
		{"first token", 0, true, 0},
		{"second token", 0, true, 0},
		{"bucket empty", 0, false, 10},
		{"partially refilled", 5 * time.Second, false, 5},
		{"refilled", 5 * time.Second, true, 0},
	}

	for _, tt := range tests {
		clk.advance(tt.advance)
		ok, _, retry := l.Allow("10.0.0.1")
		if ok != tt.wantOK || retry != tt.wantRetry {
			t.Errorf("%s: Allow() = (%v, retry=%d), want (%v, retry=%d)", tt.name, ok, retry, tt.wantOK, tt.wantRetry)
		}
	}

	if ok, _, _ := l.Allow("10.0.0.2"); !ok {
		t.Error("a different key must have its own bucket")
	}
}

func TestLimiterSweepsIdleKeys(t *testing.T) {
	clk := &fakeClock{t: time.Date(2022, 5, 31, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter(RateLimitConfig{
		Burst:         1,
		SweepInterval: time.Minute,
		IdleTTL:       2 * time.Minute,
		Now:           clk.now,
	})

	l.Allow("a")
	l.Allow("b")
	if got := l.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	clk.advance(3 * time.Minute)
	l.Allow("c")
	if got := l.Len(); got != 1 {
		t.Errorf("Len() after sweep = %d, want 1", got)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	clk := &fakeClock{t: time.Date(2022, 5, 31, 12, 0, 0, 0, time.UTC)}
	h := RateLimit(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1, Now: clk.now})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("first request status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want 0", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}
}
