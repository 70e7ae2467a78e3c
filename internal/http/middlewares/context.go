package middlewares

import (
	"context"

	"github.com/dropDatabas3/ezdine/internal/authn"
)

type ctxKey string

const (
	ctxSessionKey   ctxKey = "session"
	ctxRequestIDKey ctxKey = "request_id"
)

// WithSession inyecta la sesión verificada en el contexto.
func WithSession(ctx context.Context, s *authn.VerifiedSession) context.Context {
	return context.WithValue(ctx, ctxSessionKey, s)
}

// GetSession devuelve la sesión verificada por RequireAuth, o nil.
// Los handlers sólo ven identidad y roles; nunca el token.
func GetSession(ctx context.Context) *authn.VerifiedSession {
	s, _ := ctx.Value(ctxSessionKey).(*authn.VerifiedSession)
	return s
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	s, _ := ctx.Value(ctxRequestIDKey).(string)
	return s
}
