// Package auth contiene el service de login.
package auth

import (
	"github.com/dropDatabas3/ezdine/internal/authn"
	"github.com/dropDatabas3/ezdine/internal/domain/repository"
	"github.com/dropDatabas3/ezdine/internal/metrics"
	"github.com/dropDatabas3/ezdine/internal/security/password"
)

// Deps contiene las dependencias para crear los services auth.
type Deps struct {
	Repo    repository.CredentialRepository
	Issuer  *authn.Issuer
	Metrics *metrics.Metrics
	// HashParams se usa para re-hashear credenciales viejas en un login exitoso.
	HashParams password.Params
}

// Services agrupa todos los services del dominio auth.
type Services struct {
	Login LoginService
}

func NewServices(d Deps) Services {
	return Services{Login: NewLoginService(d)}
}
