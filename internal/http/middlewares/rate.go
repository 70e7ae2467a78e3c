package middlewares

import (
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/ezdine/internal/http/errors"
	"github.com/dropDatabas3/ezdine/internal/observability/logger"
	"github.com/dropDatabas3/ezdine/internal/rate"
)

func isTrusted(trusted []netip.Prefix, ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

// ClientIP devuelve la IP remota de la conexión. X-Forwarded-For sólo se
// usa si la conexión viene de un proxy de trusted: se recorre de derecha a
// izquierda y gana la primera IP que no es un proxy de confianza.
func ClientIP(r *http.Request, trusted []netip.Prefix) string {
	remote := remoteIP(r)
	if len(trusted) == 0 || !isTrusted(trusted, remote) {
		return remote
	}
	xf := r.Header.Values("X-Forwarded-For")
	hops := strings.Split(strings.Join(xf, ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if _, err := netip.ParseAddr(hop); err != nil {
			break
		}
		if !isTrusted(trusted, hop) {
			return hop
		}
	}
	return remote
}

// RateKeyFunc define cómo generar la clave de rate limiting.
type RateKeyFunc func(r *http.Request) string

// IPPathRateKey limita por IP remota y ruta. No lee el body ni headers.
func IPPathRateKey(r *http.Request) string {
	return remoteIP(r) + "|" + r.URL.Path
}

// IPPathRateKeyBehind es IPPathRateKey detrás de proxies de confianza.
func IPPathRateKeyBehind(trusted []netip.Prefix) RateKeyFunc {
	return func(r *http.Request) string {
		return ClientIP(r, trusted) + "|" + r.URL.Path
	}
}

// RateLimitConfig configura WithRateLimit.
type RateLimitConfig struct {
	Limiter rate.Limiter
	KeyFunc RateKeyFunc
	// OnLimited se llama cuando un request se corta por exceso (métricas).
	OnLimited func(r *http.Request)
}

// WithRateLimit corta con 429 cuando el limiter lo indica. Si el backend del
// limiter falla el request pasa (fail-open) y se loguea.
func WithRateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPPathRateKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := cfg.Limiter.Allow(r.Context(), cfg.KeyFunc(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limit backend error", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if res.WindowTTL > 0 {
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.WindowTTL).Unix(), 10))
			}
			if !res.Allowed {
				secs := int(res.RetryAfter.Seconds())
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				if cfg.OnLimited != nil {
					cfg.OnLimited(r)
				}
				errors.WriteError(w, errors.ErrRateLimitExceeded)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			next.ServeHTTP(w, r)
		})
	}
}
