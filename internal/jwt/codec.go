package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/ezdine/internal/domain/types"
)

var (
	// ErrMalformed: el token no tiene estructura JWT o sus claims no son válidas.
	ErrMalformed = errors.New("malformed token")
	// ErrBadSignature: la firma no corresponde al contenido o a nuestra clave.
	ErrBadSignature = errors.New("bad token signature")
)

// Payload es el contenido firmado de un token de sesión.
// IssuedAt tiene precisión de segundos.
type Payload struct {
	Subject  string
	Roles    types.RoleSet
	IssuedAt time.Time
	ID       string
}

type sessionClaims struct {
	Roles []string `json:"roles"`
	jwtv5.RegisteredClaims
}

// Codec firma y verifica tokens con la clave del proceso. No consulta el
// store ni el reloj: la vigencia de una sesión la decide el store.
type Codec struct {
	keys   *KeySet
	parser *jwtv5.Parser
}

func NewCodec(keys *KeySet) *Codec {
	return &Codec{
		keys: keys,
		parser: jwtv5.NewParser(
			jwtv5.WithValidMethods([]string{"EdDSA"}),
			jwtv5.WithStrictDecoding(),
		),
	}
}

// Encode firma el payload. Si ID está vacío se genera uno.
func (c *Codec) Encode(p Payload) (string, error) {
	if p.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrMalformed)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	claims := sessionClaims{
		Roles: p.Roles.Names(),
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:  p.Subject,
			IssuedAt: jwtv5.NewNumericDate(p.IssuedAt.UTC().Truncate(time.Second)),
			ID:       p.ID,
		},
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, claims)
	tk.Header["kid"] = c.keys.KID
	tk.Header["typ"] = "JWT"
	return tk.SignedString(c.keys.Priv)
}

// Decode verifica la firma y devuelve el payload. Los errores son
// ErrMalformed o ErrBadSignature (envueltos con la causa).
func (c *Codec) Decode(raw string) (Payload, error) {
	var claims sessionClaims
	_, err := c.parser.ParseWithClaims(raw, &claims, c.keyfunc)
	if err != nil {
		switch {
		case errors.Is(err, jwtv5.ErrTokenSignatureInvalid), errors.Is(err, jwtv5.ErrTokenUnverifiable):
			return Payload{}, fmt.Errorf("%w: %v", ErrBadSignature, err)
		default:
			return Payload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	if claims.Subject == "" || claims.IssuedAt == nil {
		return Payload{}, fmt.Errorf("%w: missing sub or iat", ErrMalformed)
	}
	roles, err := types.ParseRoleSet(claims.Roles)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Payload{
		Subject:  claims.Subject,
		Roles:    roles,
		IssuedAt: claims.IssuedAt.Time.UTC(),
		ID:       claims.ID,
	}, nil
}

// keyfunc sólo acepta nuestro kid; un token sin kid se verifica con la clave activa.
func (c *Codec) keyfunc(t *jwtv5.Token) (any, error) {
	if kid, _ := t.Header["kid"].(string); kid != "" && kid != c.keys.KID {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	return c.keys.Pub, nil
}
