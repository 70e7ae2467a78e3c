// Package auth contiene DTOs para endpoints de autenticación.
package auth

import "time"

// LoginRequest representa la solicitud de login por password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse representa la respuesta exitosa de login.
type TokenResponse struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"` // "Bearer"
	ExpiresAt time.Time `json:"expires_at"`
	Roles     []string  `json:"roles"`
}
