package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/ezdine/internal/http/middlewares"
	"github.com/dropDatabas3/ezdine/internal/metrics"
)

func registerAuthRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Auth

	r.Group(func(r chi.Router) {
		r.Use(mw.WithNoStore())
		if d.LoginLimiter != nil {
			r.Use(mw.WithRateLimit(mw.RateLimitConfig{
				Limiter: d.LoginLimiter,
				KeyFunc: mw.IPPathRateKeyBehind(d.TrustedProxies),
				OnLimited: func(*http.Request) {
					d.Metrics.ObserveLogin(metrics.LoginRateLimited)
				},
			}))
		}

		// POST /api/auth/login
		r.Post("/api/auth/login", c.Login.Login)
	})
}
