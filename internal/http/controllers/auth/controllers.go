package auth

import svc "github.com/dropDatabas3/ezdine/internal/http/services/auth"

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Login *LoginController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Login: NewLoginController(s.Login)}
}
