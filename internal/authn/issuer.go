package authn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/ezdine/internal/domain/repository"
	"github.com/dropDatabas3/ezdine/internal/domain/types"
	jwtx "github.com/dropDatabas3/ezdine/internal/jwt"
)

// Session es lo que recibe el cliente al iniciar sesión.
type Session struct {
	Token     string
	Identity  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer emite tokens y los registra como la única sesión vigente de la cuenta.
type Issuer struct {
	repo  repository.CredentialRepository
	codec *jwtx.Codec
	ttl   time.Duration
	settings
}

func NewIssuer(repo repository.CredentialRepository, codec *jwtx.Codec, ttl time.Duration, opts ...Option) *Issuer {
	return &Issuer{repo: repo, codec: codec, ttl: ttl, settings: newSettings(opts)}
}

// TTL devuelve la duración absoluta de una sesión.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue firma un token nuevo y lo guarda junto con su vencimiento. El token
// que la cuenta tuviera antes deja de ser aceptado por el Gate.
//
// Dos logins concurrentes de la misma cuenta compiten: gana la última
// escritura en el store y el otro token queda revocado.
func (i *Issuer) Issue(ctx context.Context, identity string, roles types.RoleSet) (Session, error) {
	if identity == "" {
		return Session{}, errors.New("authn: empty identity")
	}
	now := i.now().UTC().Truncate(time.Second)
	tok, err := i.codec.Encode(jwtx.Payload{
		Subject:  identity,
		Roles:    roles,
		IssuedAt: now,
		ID:       uuid.NewString(),
	})
	if err != nil {
		return Session{}, fmt.Errorf("authn: encode token: %w", err)
	}

	exp := now.Add(i.ttl)
	if err := i.repo.SaveSession(ctx, identity, tok, exp); err != nil {
		return Session{}, fmt.Errorf("authn: save session: %w", err)
	}
	return Session{Token: tok, Identity: identity, IssuedAt: now, ExpiresAt: exp}, nil
}
