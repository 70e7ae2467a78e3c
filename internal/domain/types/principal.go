package types

import "time"

// Principal es el registro persistido de una cuenta.
//
// ActiveToken y TokenExpiry son ambos nil (sin sesión) o ambos no-nil.
// Sólo un token es válido por cuenta; emitir uno nuevo pisa el anterior.
type Principal struct {
	ID             string
	Identity       string // email, único e inmutable
	CredentialHash string `json:"-"`
	Roles          RoleSet
	ActiveToken    *string    `json:"-"`
	TokenExpiry    *time.Time `json:"-"`
	CreatedAt      time.Time
}

// HasSession indica si el registro tiene una sesión emitida (vigente o no).
func (p *Principal) HasSession() bool {
	return p != nil && p.ActiveToken != nil && p.TokenExpiry != nil
}

// Clone devuelve una copia profunda (los punteros de sesión no se comparten).
func (p *Principal) Clone() *Principal {
	if p == nil {
		return nil
	}
	c := *p
	if p.ActiveToken != nil {
		tok := *p.ActiveToken
		c.ActiveToken = &tok
	}
	if p.TokenExpiry != nil {
		exp := *p.TokenExpiry
		c.TokenExpiry = &exp
	}
	return &c
}
