package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/aem-assistant/internal/metrics"
)

// Metrics records request count, latency and in-flight gauge. The route label is the
// chi pattern (e.g. /aem/urls/{id}) so ids do not explode cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inFlight := metrics.InFlight()
		inFlight.Inc()
		defer inFlight.Dec()

		start := time.Now()
		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		metrics.ObserveHTTP(r.Method, route, strconv.Itoa(wrapped.statusCode), time.Since(start).Seconds())
	})
}
