package middleware

import (
	"net/http"
	"strconv"
	"time"

	"innoevent/internal/observability/metrics"
)

// MetricsMiddleware records a request counter and duration histogram per
// route pattern. The registered ServeMux pattern (not the raw URL) is used as
// the path label to keep cardinality bounded.
func MetricsMiddleware(m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(wrapped.status)
		m.ObserveHTTPRequest(r.Method, path, status, time.Since(start))
		if wrapped.status >= http.StatusBadRequest {
			m.IncError(status)
		}
	})
}
