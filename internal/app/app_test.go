package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/ezdine/internal/config"
	jwtx "github.com/dropDatabas3/ezdine/internal/jwt"
)

func baseEnv(t *testing.T) {
	t.Helper()
	seed, err := jwtx.GenerateSeed()
	require.NoError(t, err)
	t.Setenv("SIGNING_KEY", seed)
	t.Setenv("SIGNING_KID", "app-test")
	t.Setenv("STORAGE_DRIVER", "memory")
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNew_MemoryStore(t *testing.T) {
	baseEnv(t)
	cfg, err := config.Load("")
	require.NoError(t, err)

	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	rec := get(c.Handler, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store":"up"`)
	assert.Contains(t, rec.Body.String(), `"signing_kid":"app-test"`)
}

func TestNew_RedisLimiterAndBlacklist(t *testing.T) {
	baseEnv(t)
	mr := miniredis.RunT(t)

	bl := filepath.Join(t.TempDir(), "blacklist.txt")
	require.NoError(t, os.WriteFile(bl, []byte("# comunes\npassword123\n"), 0o600))

	t.Setenv("RATE_ENABLED", "true")
	t.Setenv("RATE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("RATE_LOGIN_LIMIT", "1")
	t.Setenv("PASSWORD_BLACKLIST_PATH", bl)

	cfg, err := config.Load("")
	require.NoError(t, err)
	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Contains(t, get(c.Handler, "/readyz").Body.String(), `"redis":"up"`)

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c.Handler.ServeHTTP(rec, req)
		return rec
	}

	rec := post("/api/users", `{"email":"a@x.com","password":"password123","role":"ROLE_USER"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "blacklisted")

	login := `{"email":"a@x.com","password":"whatever"}`
	assert.Equal(t, http.StatusUnauthorized, post("/api/auth/login", login).Code)
	assert.Equal(t, http.StatusTooManyRequests, post("/api/auth/login", login).Code)
}

func TestNew_BadSigningKey(t *testing.T) {
	baseEnv(t)
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.JWT.SigningKey = "c2hvcnQ="

	_, err = New(context.Background(), cfg)
	assert.ErrorIs(t, err, jwtx.ErrInvalidSeed)
}
