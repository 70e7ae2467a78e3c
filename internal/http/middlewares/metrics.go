package middlewares

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/ezdine/internal/metrics"
)

// WithMetrics instrumenta requests HTTP (contador, latencia, inflight).
// El label path es el patrón de chi; si no hubo match se normaliza el path.
func WithMetrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method := strings.ToUpper(r.Method)
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			inflight := m.HTTPInflight.WithLabelValues(method, metrics.NormalizePath(r.URL.Path))
			inflight.Inc()
			defer inflight.Dec()

			next.ServeHTTP(rec, r)

			path := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				path = rctx.RoutePattern()
			}
			if path == "" {
				path = metrics.NormalizePath(r.URL.Path)
			}
			m.HTTPDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		})
	}
}
