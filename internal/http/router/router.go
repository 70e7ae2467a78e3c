// Package router arma el árbol de rutas chi. Los middlewares globales van en
// New y cada grupo de rutas agrega los suyos en su archivo *_routes.go.
package router

import (
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/ezdine/internal/http/controllers"
	httperrors "github.com/dropDatabas3/ezdine/internal/http/errors"
	mw "github.com/dropDatabas3/ezdine/internal/http/middlewares"
	"github.com/dropDatabas3/ezdine/internal/metrics"
	"github.com/dropDatabas3/ezdine/internal/rate"
)

// Deps contiene todo lo que el router necesita.
type Deps struct {
	Controllers *controllers.Controllers
	Gate        mw.Authenticator
	Metrics     *metrics.Metrics
	// LoginLimiter es opcional: nil deshabilita el rate limit de login.
	LoginLimiter rate.Limiter
	// TrustedProxies habilita X-Forwarded-For para la clave del limiter sólo
	// cuando la conexión viene de uno de estos prefijos.
	TrustedProxies []netip.Prefix
}

// New devuelve el handler raíz.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithSecurityHeaders(),
		mw.WithLogging(),
		mw.WithMetrics(d.Metrics),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, d)
	registerAuthRoutes(r, d)
	registerUserRoutes(r, d)

	return r
}
