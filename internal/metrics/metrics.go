// Package metrics define las métricas Prometheus del servicio: HTTP, decisiones
// del gate, logins y estado del pool de Postgres.
package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes del gate que no son un motivo de rechazo.
const (
	OutcomeAuthenticated = "authenticated"
	// OutcomeError: el store falló y no hubo decisión.
	OutcomeError = "error"
)

// Resultados de login.
const (
	LoginSuccess     = "success"
	LoginInvalid     = "invalid_credentials"
	LoginRateLimited = "rate_limited"
	LoginError       = "error"
)

type Metrics struct {
	reg      prometheus.Registerer
	gatherer prometheus.Gatherer

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInflight *prometheus.GaugeVec

	AuthDecisions *prometheus.CounterVec
	Logins        *prometheus.CounterVec
}

// New crea y registra las métricas en reg. Con reg nil se usa un registry
// propio (tests), no el global.
func New(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		reg:      reg,
		gatherer: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		HTTPInflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo por método y ruta",
		}, []string{"method", "path"}),
		AuthDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ezdine_auth_decisions_total",
			Help: "Decisiones del gate por resultado (authenticated o motivo de rechazo)",
		}, []string{"outcome"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ezdine_logins_total",
			Help: "Intentos de login por resultado",
		}, []string{"result"}),
	}
	for _, c := range []prometheus.Collector{m.HTTPRequests, m.HTTPDuration, m.HTTPInflight, m.AuthDecisions, m.Logins} {
		if err := m.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Register agrega un collector ignorando duplicados.
func (m *Metrics) Register(c prometheus.Collector) error {
	if err := m.reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// Handler expone /metrics para este registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveDecision cuenta una decisión del gate/autorización. nil-safe.
func (m *Metrics) ObserveDecision(outcome string) {
	if m != nil {
		m.AuthDecisions.WithLabelValues(outcome).Inc()
	}
}

// ObserveLogin cuenta un intento de login. nil-safe.
func (m *Metrics) ObserveLogin(result string) {
	if m != nil {
		m.Logins.WithLabelValues(result).Inc()
	}
}

var (
	uuidSegmentRE  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F-]{4}-[0-9a-fA-F-]{4,}$`)
	tokenSegmentRE = regexp.MustCompile(`^[A-Za-z0-9_-]{24,}$`)
)

// NormalizePath reemplaza segmentos dinámicos (ids, emails, tokens) por :param
// para no explotar la cardinalidad de labels. Se usa cuando el router no
// resolvió un patrón de ruta.
func NormalizePath(p string) string {
	clean := strings.SplitN(p, "?", 2)[0]
	var out []string
	for _, seg := range strings.Split(clean, "/") {
		if seg == "" {
			continue
		}
		if isDynamicSegment(seg) {
			seg = ":param"
		}
		out = append(out, seg)
	}
	if len(out) == 0 {
		return "/"
	}
	return "/" + strings.Join(out, "/")
}

func isDynamicSegment(seg string) bool {
	if len(seg) > 48 || strings.Contains(seg, "@") {
		return true
	}
	if uuidSegmentRE.MatchString(seg) || tokenSegmentRE.MatchString(seg) {
		return true
	}
	_, err := strconv.Atoi(seg)
	return err == nil
}
