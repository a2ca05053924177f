package restapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"subwaystatus.org/internal/metrics"
)

// unmatchedRoute labels requests no route pattern matched, so requests for
// arbitrary paths cannot grow the label set.
const unmatchedRoute = "unmatched"

// MetricsHandler returns middleware that counts and times requests per
// route pattern. A nil m yields a pass-through middleware.
func MetricsHandler(m *metrics.Metrics) func(http.Handler) http.Handler {
	if m == nil {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := routeLabel(r)
			m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.statusCode)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// routeLabel is the matched ServeMux pattern without its method, so
// /api/subway/status/26 and /api/subway/status/SI share one series.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return unmatchedRoute
	}
	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}
	return r.Pattern
}
