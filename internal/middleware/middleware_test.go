package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"graphql-pagequery/internal/logging"
	"graphql-pagequery/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestLogger(t *testing.T) *logging.Logger {
	t.Helper()
	return logging.NewLogger(logging.Config{Level: "error", Format: "json"})
}

func TestLoggingMiddleware_GeneratesRequestID(t *testing.T) {
	var ctxRequestID string
	handler := LoggingMiddleware(newTestLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxRequestID = logging.GetRequestID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, rec.Header().Get(RequestIDHeader), ctxRequestID)
}

func TestLoggingMiddleware_PropagatesIncomingRequestID(t *testing.T) {
	handler := LoggingMiddleware(newTestLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}

func TestLevelForStatus(t *testing.T) {
	assert.Equal(t, "INFO", levelForStatus(http.StatusOK).String())
	assert.Equal(t, "WARN", levelForStatus(http.StatusBadRequest).String())
	assert.Equal(t, "ERROR", levelForStatus(http.StatusInternalServerError).String())
}

func TestStatusRecorder_DefaultsToOKOnWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}

	_, err := sr.Write([]byte("ok"))
	require.NoError(t, err)

	sr.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusOK, sr.status)
}

func TestMetricsMiddleware_RecordsRequests(t *testing.T) {
	reader := setupMeterProvider(t)

	metrics, err := observability.InitQueryMetrics()
	require.NoError(t, err)

	handler := MetricsMiddleware(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/graphql", nil))

	failing := MetricsMiddleware(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	failing.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/graphql", nil))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	assert.Equal(t, int64(2), sumCounter(rm, "graphql.requests.total"))
	assert.Equal(t, int64(1), sumCounter(rm, "graphql.errors.total"))
}

func TestMetricsMiddleware_NilMetricsIsNoop(t *testing.T) {
	handler := MetricsMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func setupMeterProvider(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	oldProvider := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
		otel.SetMeterProvider(oldProvider)
	})
	return reader
}

func sumCounter(rm metricdata.ResourceMetrics, name string) int64 {
	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, point := range sum.DataPoints {
				total += point.Value
			}
		}
	}
	return total
}
