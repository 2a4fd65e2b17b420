package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/edgeflare/pgtables/pkg/metrics"
)

// Metrics records request counts and latencies labeled by the matched route pattern.
// It must wrap the ServeMux directly: the mux sets r.Pattern on the request it was handed,
// so a middleware between the two that replaces the request would hide the pattern.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := NewResponseRecorder(w)

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = metrics.RouteUnmatched
		}
		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.StatusCode)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
