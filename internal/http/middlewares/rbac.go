package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/ezdine/internal/authn"
	"github.com/dropDatabas3/ezdine/internal/domain/types"
	"github.com/dropDatabas3/ezdine/internal/http/errors"
	"github.com/dropDatabas3/ezdine/internal/metrics"
	"github.com/dropDatabas3/ezdine/internal/observability/logger"
)

// RequireRoles exige que la sesión tenga al menos uno de los roles dados.
// Va después de RequireAuth. Cada ruta lista sus roles: no hay jerarquía.
func RequireRoles(m *metrics.Metrics, roles ...types.Role) Middleware {
	required := types.NewRoleSet(roles...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := GetSession(r.Context())
			if err := authn.Authorize(s, required); err != nil {
				kind, _ := authn.KindOf(err)
				m.ObserveDecision(kind.String())
				logger.From(r.Context()).Debug("role check failed",
					logger.RejectKind(kind),
					logger.Roles(required.Names()),
				)
				errors.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
