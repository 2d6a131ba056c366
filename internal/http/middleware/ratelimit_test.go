package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newLimitedRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rl := NewRateLimiter(rps, burst, KeyByClientIP())
	r.Use(rl.Handler())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	r := newLimitedRouter(0, 2) // no refill, burst of 2

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestRateLimiter_BucketsAreKeyed(t *testing.T) {
	r := newLimitedRouter(0, 1)

	// First client exhausts its bucket.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:1111"
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first client: %d", w.Code)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:1111"
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("first client second call: %d, want 429", w.Code)
	}

	// A different client IP still has tokens.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:2222"
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("second client: %d, want 200", w.Code)
	}
}

func TestNewRateLimiter_CoercesBurst(t *testing.T) {
	rl := NewRateLimiter(1, 0, KeyByClientIP())
	if rl.burst != 1 {
		t.Fatalf("burst = %d, want 1", rl.burst)
	}
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1, KeyByClientIP())
	rl.ttl = time.Millisecond

	rl.getVisitor("ip:10.0.0.1")
	time.Sleep(5 * time.Millisecond)

	rl.mu.Lock()
	rl.cleanupN = 4999 // force GC on next lookup
	rl.mu.Unlock()

	rl.getVisitor("ip:10.0.0.2")

	rl.mu.Lock()
	_, stale := rl.visitors["ip:10.0.0.1"]
	rl.mu.Unlock()
	if stale {
		t.Fatal("idle visitor was not evicted")
	}
}
