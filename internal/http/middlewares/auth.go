package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/dropDatabas3/ezdine/internal/authn"
	"github.com/dropDatabas3/ezdine/internal/http/errors"
	"github.com/dropDatabas3/ezdine/internal/metrics"
	"github.com/dropDatabas3/ezdine/internal/observability/logger"
)

// Authenticator es lo que RequireAuth necesita del gate.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*authn.VerifiedSession, error)
}

// bearerToken extrae el token de "Authorization: Bearer <t>". Cualquier otro
// esquema cuenta como credencial ausente.
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// RequireAuth verifica el bearer token con el gate. Si pasa, la sesión queda
// en el contexto (GetSession); si no, responde con el status del rechazo.
func RequireAuth(gate Authenticator, m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.From(r.Context()).With(logger.Layer("middleware"), logger.Component("auth"))

			s, err := gate.Authenticate(r.Context(), bearerToken(r))
			if err != nil {
				if kind, ok := authn.KindOf(err); ok {
					m.ObserveDecision(kind.String())
					log.Debug("request rejected", logger.RejectKind(kind))
				} else {
					m.ObserveDecision(metrics.OutcomeError)
					log.Error("session check failed", logger.Err(err))
				}
				errors.WriteError(w, err)
				return
			}

			m.ObserveDecision(metrics.OutcomeAuthenticated)
			ctx := WithSession(r.Context(), s)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.Identity(s.Identity), logger.TokenID(s.TokenID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
