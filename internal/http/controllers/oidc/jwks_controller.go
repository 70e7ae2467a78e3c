// Package oidc expone la clave pública de firma como JWKS.
package oidc

import (
	"net/http"

	jwtx "github.com/dropDatabas3/ezdine/internal/jwt"
)

type JWKSController struct {
	body []byte
}

// NewJWKSController serializa el JWKS una sola vez: la clave no cambia
// durante la vida del proceso.
func NewJWKSController(keys *jwtx.KeySet) *JWKSController {
	return &JWKSController{body: keys.JWKSJSON()}
}

// Get maneja GET /.well-known/jwks.json
func (c *JWKSController) Get(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(c.body)
}
