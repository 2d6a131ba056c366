package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountsRequestsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/messages", func(c *gin.Context) { c.String(http.StatusOK, "[]") })

	before := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/messages", "200"))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/messages", nil))
	}

	after := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/messages", "200"))
	if after-before != 3 {
		t.Fatalf("counter delta = %v, want 3", after-before)
	}
}

func TestMetrics_UnmatchedRouteUsesRawPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/does-not-exist", nil))

	got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/does-not-exist", "404"))
	if got < 1 {
		t.Fatalf("expected 404 sample for raw path, got %v", got)
	}
}
