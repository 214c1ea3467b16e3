package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandlerExposesPrometheusMetrics(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveActivity("enqueued")

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `backoffice_activity_events_total{outcome="enqueued"} 1`)
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/produtos")
	req := httptest.NewRequest(http.MethodGet, "/produtos", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusTeapot, rr.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("/produtos", "418")))

	metricsRR := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(metricsRR, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(metricsRR.Body.String(), `backoffice_http_request_duration_seconds_bucket{route="/produtos"`))
}

func TestObserveAPICall(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveAPICall("product", http.MethodGet, http.StatusOK, 20*time.Millisecond)
	metrics.ObserveAPICall("product", http.MethodGet, http.StatusOK, 10*time.Millisecond)
	metrics.ObserveAPICall("users", http.MethodPost, 0, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.apiCalls.WithLabelValues("product", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.apiCalls.WithLabelValues("users", "POST", "0")))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.apiDuration))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveAPICall("product", http.MethodGet, http.StatusOK, time.Millisecond)
	metrics.ObserveActivity("failed")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	assert.NotNil(t, metrics.Middleware(next))

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
