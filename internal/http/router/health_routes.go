package router

import (
	"github.com/go-chi/chi/v5"
)

// registerHealthRoutes: infra pública, sin auth.
func registerHealthRoutes(r chi.Router, d Deps) {
	c := d.Controllers

	r.Get("/livez", c.Health.Livez)
	r.Get("/readyz", c.Health.Readyz)
	r.Get("/.well-known/jwks.json", c.JWKS.Get)
	if d.Metrics != nil {
		r.Method("GET", "/metrics", d.Metrics.Handler())
	}
}
