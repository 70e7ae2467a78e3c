package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/ezdine/internal/authn"
	"github.com/dropDatabas3/ezdine/internal/domain/types"
	"github.com/dropDatabas3/ezdine/internal/metrics"
	"github.com/dropDatabas3/ezdine/internal/rate"
)

type stubGate struct {
	session *authn.VerifiedSession
	err     error
	got     string
}

func (g *stubGate) Authenticate(_ context.Context, raw string) (*authn.VerifiedSession, error) {
	g.got = raw
	return g.session, g.err
}

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

func newMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	return m
}

func TestChain_Order(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(ok), mk("a"), mk("b"), mk("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"Bearer abc":     "abc",
		"bearer  abc ":   "abc",
		"Basic dXNlcjpw": "",
		"Bearer":         "",
		"Bearerabc":      "",
	}
	for header, want := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, bearerToken(r), header)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := WithRequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "client-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, "client-id", seen)
}

func TestRecover(t *testing.T) {
	h := WithRecover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestRequireAuth(t *testing.T) {
	session := &authn.VerifiedSession{Identity: "a@x.com", Roles: types.NewRoleSet(types.RoleUser)}

	t.Run("authenticated", func(t *testing.T) {
		g := &stubGate{session: session}
		var got *authn.VerifiedSession
		h := RequireAuth(g, newMetrics(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetSession(r.Context())
		}))
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer tok")
		h.ServeHTTP(httptest.NewRecorder(), r)
		assert.Equal(t, "tok", g.got)
		assert.Same(t, session, got)
	})

	cases := []struct {
		err    error
		status int
	}{
		{authn.ErrMissingCredential, http.StatusForbidden},
		{authn.ErrInvalidSignature, http.StatusUnauthorized},
		{authn.ErrUnknownPrincipal, http.StatusUnauthorized},
		{authn.ErrSupersededSession, http.StatusForbidden},
		{authn.ErrExpiredSession, http.StatusForbidden},
		{errors.New("store down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			called := false
			h := RequireAuth(&stubGate{err: tc.err}, newMetrics(t))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tc.status, rec.Code)
			assert.False(t, called)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	user := &authn.VerifiedSession{Identity: "a@x.com", Roles: types.NewRoleSet(types.RoleUser)}
	h := RequireRoles(nil, types.RoleAdmin)(http.HandlerFunc(ok))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r.WithContext(WithSession(r.Context(), user)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "INSUFFICIENT_ROLE")

	h = RequireRoles(nil, types.RoleUser, types.RoleAdmin)(http.HandlerFunc(ok))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r.WithContext(WithSession(r.Context(), user)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimit(t *testing.T) {
	limited := 0
	h := WithRateLimit(RateLimitConfig{
		Limiter:   rate.NewMemoryLimiter(1, time.Minute),
		OnLimited: func(*http.Request) { limited++ },
	})(http.HandlerFunc(ok))

	req := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{}"))
		r.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, req().Code)
	rec := req()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, 1, limited)
}

func TestClientIP(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	cases := []struct {
		name    string
		remote  string
		xff     string
		trusted []netip.Prefix
		want    string
	}{
		{"sin proxies confiables ignora XFF", "203.0.113.5:1000", "1.1.1.1", nil, "203.0.113.5"},
		{"peer no confiable ignora XFF", "203.0.113.5:1000", "1.1.1.1", trusted, "203.0.113.5"},
		{"peer confiable usa el hop mas a la derecha", "10.0.0.2:1000", "6.6.6.6, 198.51.100.7", trusted, "198.51.100.7"},
		{"salta hops confiables", "10.0.0.2:1000", "198.51.100.7, 10.9.9.9", trusted, "198.51.100.7"},
		{"todos confiables cae al peer", "10.0.0.2:1000", "10.3.3.3", trusted, "10.0.0.2"},
		{"hop invalido corta", "10.0.0.2:1000", "198.51.100.7, basura", trusted, "10.0.0.2"},
		{"sin XFF", "10.0.0.2:1000", "", trusted, "10.0.0.2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remote
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			assert.Equal(t, tc.want, ClientIP(r, tc.trusted))
		})
	}
}

func TestIPPathRateKey_IgnoresForwardedFor(t *testing.T) {
	a := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	a.RemoteAddr = "203.0.113.5:1000"
	a.Header.Set("X-Forwarded-For", "1.1.1.1")
	b := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	b.RemoteAddr = "203.0.113.5:2000"
	b.Header.Set("X-Forwarded-For", "2.2.2.2")

	assert.Equal(t, "203.0.113.5|/api/auth/login", IPPathRateKey(a))
	assert.Equal(t, IPPathRateKey(a), IPPathRateKey(b))
}

func TestSecurityHeaders(t *testing.T) {
	h := Chain(http.HandlerFunc(ok), WithSecurityHeaders(), WithNoStore())
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}
