// Package services es el composition root de los services HTTP.
package services

import (
	"github.com/dropDatabas3/ezdine/internal/http/services/auth"
	"github.com/dropDatabas3/ezdine/internal/http/services/health"
	"github.com/dropDatabas3/ezdine/internal/http/services/users"
)

type Deps struct {
	Auth   auth.Deps
	Users  users.Deps
	Health health.Deps
}

type Services struct {
	Auth   auth.Services
	Users  users.Services
	Health health.HealthService
}

func New(d Deps) Services {
	return Services{
		Auth:   auth.NewServices(d.Auth),
		Users:  users.NewServices(d.Users),
		Health: health.NewHealthService(d.Health),
	}
}
