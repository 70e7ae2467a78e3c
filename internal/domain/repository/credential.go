package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/ezdine/internal/domain/types"
)

// CreatePrincipalInput contiene los datos para registrar una cuenta.
type CreatePrincipalInput struct {
	Identity       string
	CredentialHash string
	Roles          types.RoleSet
}

// CredentialRepository es el Credential Store: un registro por cuenta con
// credencial, roles y la sesión activa (token + expiración).
type CredentialRepository interface {
	// GetByIdentity busca una cuenta por identidad (email, sin distinguir mayúsculas).
	// Retorna ErrNotFound si no existe.
	GetByIdentity(ctx context.Context, identity string) (*types.Principal, error)

	// GetByToken busca la cuenta cuyo token activo coincide exactamente.
	// Retorna ErrNotFound si ninguna cuenta lo tiene.
	GetByToken(ctx context.Context, token string) (*types.Principal, error)

	// SaveSession pisa token y expiración en una sola escritura (last-write-wins).
	// Retorna ErrNotFound si la cuenta no existe.
	SaveSession(ctx context.Context, identity, token string, expiresAt time.Time) error

	// Create registra una cuenta nueva sin sesión.
	// Retorna ErrConflict si la identidad ya existe.
	Create(ctx context.Context, input CreatePrincipalInput) (*types.Principal, error)

	// UpdateCredential reemplaza el hash de password.
	// Retorna ErrNotFound si la cuenta no existe.
	UpdateCredential(ctx context.Context, identity, hash string) error

	// Ping verifica conectividad con el backend.
	Ping(ctx context.Context) error
}
