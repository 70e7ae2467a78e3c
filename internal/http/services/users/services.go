// Package users contiene los services de cuentas: alta, perfil propio,
// cambio de password y consulta administrativa.
package users

import (
	"github.com/dropDatabas3/ezdine/internal/domain/repository"
	"github.com/dropDatabas3/ezdine/internal/security/password"
)

type Deps struct {
	Repo       repository.CredentialRepository
	Policy     password.Policy
	HashParams password.Params
}

type Services struct {
	Users UserService
}

func NewServices(d Deps) Services {
	return Services{Users: NewUserService(d)}
}
