package jwt

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/ezdine/internal/domain/types"
)

func testKeys(t *testing.T, kid string) *KeySet {
	t.Helper()
	seed, err := GenerateSeed()
	require.NoError(t, err)
	raw, err := ParseSeed(seed)
	require.NoError(t, err)
	ks, err := NewKeySet(raw, kid)
	require.NoError(t, err)
	return ks
}

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec(testKeys(t, "k1"))
	in := Payload{
		Subject:  "ana@example.com",
		Roles:    types.NewRoleSet(types.RoleUser, types.RoleAdmin),
		IssuedAt: time.Date(2026, 3, 1, 12, 0, 5, 0, time.UTC),
		ID:       "8a1f6a5e-8b7e-4c1a-9d39-000000000001",
	}
	tok, err := c.Encode(in)
	require.NoError(t, err)

	out, err := c.Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, in.Subject, out.Subject)
	assert.Equal(t, in.Roles, out.Roles)
	assert.True(t, in.IssuedAt.Equal(out.IssuedAt))
	assert.Equal(t, in.ID, out.ID)
}

func TestCodec_SubSecondTruncated(t *testing.T) {
	c := NewCodec(testKeys(t, "k1"))
	at := time.Date(2026, 3, 1, 12, 0, 5, 900_000_000, time.UTC)
	tok, err := c.Encode(Payload{Subject: "a@b.c", Roles: types.NewRoleSet(types.RoleUser), IssuedAt: at})
	require.NoError(t, err)

	out, err := c.Decode(tok)
	require.NoError(t, err)
	assert.True(t, out.IssuedAt.Equal(at.Truncate(time.Second)))
	assert.NotEmpty(t, out.ID)
}

func TestCodec_SameSecondTokensDiffer(t *testing.T) {
	c := NewCodec(testKeys(t, "k1"))
	p := Payload{Subject: "a@b.c", Roles: types.NewRoleSet(types.RoleUser), IssuedAt: time.Unix(1700000000, 0)}
	t1, err := c.Encode(p)
	require.NoError(t, err)
	t2, err := c.Encode(p)
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)
}

func TestCodec_Malformed(t *testing.T) {
	c := NewCodec(testKeys(t, "k1"))
	for _, raw := range []string{"", "abc", "a.b.c", "not.a.jwt.at.all"} {
		_, err := c.Decode(raw)
		assert.ErrorIs(t, err, ErrMalformed, raw)
	}
}

func TestCodec_TamperedPayload(t *testing.T) {
	c := NewCodec(testKeys(t, "k1"))
	tok, err := c.Encode(Payload{Subject: "a@b.c", Roles: types.NewRoleSet(types.RoleUser), IssuedAt: time.Unix(1700000000, 0)})
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"roles":["ROLE_ADMIN"],"sub":"a@b.c","iat":1700000000}`))
	_, err = c.Decode(parts[0] + "." + forged + "." + parts[2])
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestCodec_TamperedSignature(t *testing.T) {
	c := NewCodec(testKeys(t, "k1"))
	tok, err := c.Encode(Payload{Subject: "a@b.c", Roles: types.NewRoleSet(types.RoleUser), IssuedAt: time.Unix(1700000000, 0)})
	require.NoError(t, err)

	// cambia un carácter en medio de la firma (los bits finales son padding)
	i := strings.LastIndex(tok, ".") + 10
	b := []byte(tok)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	_, err = c.Decode(string(b))
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestCodec_OtherKey(t *testing.T) {
	a := NewCodec(testKeys(t, "k1"))
	b := NewCodec(testKeys(t, "k1"))
	tok, err := a.Encode(Payload{Subject: "a@b.c", Roles: types.NewRoleSet(types.RoleUser), IssuedAt: time.Unix(1700000000, 0)})
	require.NoError(t, err)

	_, err = b.Decode(tok)
	assert.ErrorIs(t, err, ErrBadSignature)

	other := NewCodec(testKeys(t, "k2"))
	_, err = other.Decode(tok)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestParseSeed(t *testing.T) {
	_, err := ParseSeed("")
	assert.ErrorIs(t, err, ErrInvalidSeed)

	_, err = ParseSeed(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.ErrorIs(t, err, ErrInvalidSeed)

	_, err = NewKeySet(make([]byte, 32), "")
	assert.Error(t, err)
}

func TestJWKSJSON(t *testing.T) {
	ks := testKeys(t, "k1")
	j := string(ks.JWKSJSON())
	assert.Contains(t, j, `"kid":"k1"`)
	assert.Contains(t, j, `"crv":"Ed25519"`)
}
