package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/metrics"
)

// Metrics records request count, latency and in-flight requests. Paths are
// used as labels only when listed in routes; with no routes, any path under
// /api/v1/ or /health/ is kept. Everything else is labelled "other".
func Metrics(m *metrics.Metrics, routes ...string) func(http.Handler) http.Handler {
	label := prefixLabel
	if len(routes) > 0 {
		known := make(map[string]struct{}, len(routes))
		for _, r := range routes {
			known[r] = struct{}{}
		}
		label = func(path string) string {
			if _, ok := known[path]; ok {
				return path
			}
			return "other"
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.HTTPRequestsInFlight.Inc()
			defer m.HTTPRequestsInFlight.Dec()

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start).Seconds()

			path := label(r.URL.Path)
			m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.Status())).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(elapsed)
		})
	}
}

func prefixLabel(path string) string {
	if strings.HasPrefix(path, "/api/v1/") || strings.HasPrefix(path, "/health/") {
		return path
	}
	return "other"
}

// statusRecorder remembers the first status written. A handler that only
// calls Write gets 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Status() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}
