// Package users contiene DTOs para /api/users.
package users

// RegisterRequest: alta pública de una cuenta con un único rol.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateRequest: cambio de password de la cuenta autenticada.
type UpdateRequest struct {
	Password *string `json:"password"`
}

type UserResponse struct {
	Email string   `json:"email"`
	Role  []string `json:"role"`
}
