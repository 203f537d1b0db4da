package middleware

import (
	"net/http"
	"time"

	"graphql-pagequery/internal/observability"
)

// MetricsMiddleware records request duration, counters, and in-flight gauge
// for the GraphQL endpoint. A nil metrics value disables recording.
func MetricsMiddleware(metrics *observability.QueryMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			done := metrics.RequestStarted(r.Context())
			defer done()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			metrics.RecordRequest(r.Context(), time.Since(start), rec.status >= 400)
		})
	}
}
