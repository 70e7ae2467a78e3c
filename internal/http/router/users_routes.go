package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/ezdine/internal/domain/types"
	mw "github.com/dropDatabas3/ezdine/internal/http/middlewares"
)

func registerUserRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Users

	r.Group(func(r chi.Router) {
		r.Use(mw.WithNoStore())

		// POST /api/users (alta pública)
		r.Post("/api/users", c.Register)

		r.Group(func(r chi.Router) {
			r.Use(
				mw.RequireAuth(d.Gate, d.Metrics),
				mw.RequireRoles(d.Metrics, types.RoleUser, types.RoleAdmin),
			)
			r.Get("/api/users", c.Get)
			r.Patch("/api/users", c.Update)
		})

		r.Group(func(r chi.Router) {
			r.Use(
				mw.RequireAuth(d.Gate, d.Metrics),
				mw.RequireRoles(d.Metrics, types.RoleAdmin),
			)
			r.Get("/api/admin/users/{email}", c.Lookup)
		})
	})
}
