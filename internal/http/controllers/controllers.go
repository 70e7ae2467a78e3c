// Package controllers agrupa los controllers HTTP por dominio. Cada
// sub-paquete recibe sus services ya construidos (ver services.New) y el
// router sólo conoce este aggregator.
package controllers

import (
	"github.com/dropDatabas3/ezdine/internal/http/controllers/auth"
	"github.com/dropDatabas3/ezdine/internal/http/controllers/health"
	"github.com/dropDatabas3/ezdine/internal/http/controllers/oidc"
	"github.com/dropDatabas3/ezdine/internal/http/controllers/users"
	"github.com/dropDatabas3/ezdine/internal/http/services"
	jwtx "github.com/dropDatabas3/ezdine/internal/jwt"
)

type Controllers struct {
	Auth   *auth.Controllers
	Users  *users.UsersController
	Health *health.HealthController
	JWKS   *oidc.JWKSController
}

func New(s services.Services, keys *jwtx.KeySet) *Controllers {
	return &Controllers{
		Auth:   auth.NewControllers(s.Auth),
		Users:  users.NewUsersController(s.Users.Users),
		Health: health.NewHealthController(s.Health),
		JWKS:   oidc.NewJWKSController(keys),
	}
}
