package authn

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/dropDatabas3/ezdine/internal/domain/repository"
	"github.com/dropDatabas3/ezdine/internal/domain/types"
	jwtx "github.com/dropDatabas3/ezdine/internal/jwt"
)

// VerifiedSession es la identidad ya verificada que ven los handlers.
// Los roles salen del store, no del token.
type VerifiedSession struct {
	Identity  string
	Roles     types.RoleSet
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string
}

// Gate verifica el bearer token de cada request.
type Gate struct {
	repo  repository.CredentialRepository
	codec *jwtx.Codec
	settings
}

func NewGate(repo repository.CredentialRepository, codec *jwtx.Codec, opts ...Option) *Gate {
	return &Gate{repo: repo, codec: codec, settings: newSettings(opts)}
}

// Authenticate decide si raw es la sesión vigente de alguien.
//
// Orden de chequeos: presencia, firma, cuenta existente, token igual al
// guardado, vencimiento. Hace exactamente una lectura al store. Los errores
// del store que no son ErrNotFound se devuelven tal cual (no son rechazos).
func (g *Gate) Authenticate(ctx context.Context, raw string) (*VerifiedSession, error) {
	if raw == "" {
		return nil, ErrMissingCredential
	}

	payload, err := g.codec.Decode(raw)
	if err != nil {
		return nil, reject(InvalidSignature, err)
	}

	p, err := g.repo.GetByIdentity(ctx, payload.Subject)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, reject(UnknownPrincipal, err)
		}
		return nil, fmt.Errorf("authn: lookup principal: %w", err)
	}

	// sin token guardado se trata igual que un token reemplazado
	if p.ActiveToken == nil || subtle.ConstantTimeCompare([]byte(*p.ActiveToken), []byte(raw)) != 1 {
		return nil, ErrSupersededSession
	}
	if p.TokenExpiry == nil || !g.now().Before(*p.TokenExpiry) {
		return nil, ErrExpiredSession
	}

	return &VerifiedSession{
		Identity:  p.Identity,
		Roles:     p.Roles,
		IssuedAt:  payload.IssuedAt,
		ExpiresAt: *p.TokenExpiry,
		TokenID:   payload.ID,
	}, nil
}
