package logger

import (
	"time"

	"go.uber.org/zap"
)

// Field es zap.Field, para no importar zap en cada capa.
type Field = zap.Field

// =================================================================================
// HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }

func Method(v string) zap.Field { return zap.String("method", v) }

func Path(v string) zap.Field { return zap.String("path", v) }

func Status(v int) zap.Field { return zap.Int("status", v) }

func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// ClientIP es la IP remota tal como la ve el server (sin confiar en X-Forwarded-For).
func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

// =================================================================================
// SESIÓN
// =================================================================================

// Identity es el email de la cuenta. En prod conviene nivel debug.
func Identity(v string) zap.Field { return zap.String("identity", v) }

// TokenID es el jti de la sesión; nunca loguear el token completo.
func TokenID(v string) zap.Field { return zap.String("token_id", v) }

// RejectKind es el motivo de rechazo del gate (fmt.Stringer).
func RejectKind(v interface{ String() string }) zap.Field {
	return zap.Stringer("reject_kind", v)
}

// Roles lista los roles de la sesión.
func Roles(v []string) zap.Field { return zap.Strings("roles", v) }

// =================================================================================
// SISTEMA
// =================================================================================

func Component(v string) zap.Field { return zap.String("component", v) }

func Op(v string) zap.Field { return zap.String("op", v) }

// Layer: controller, service, repository, middleware.
func Layer(v string) zap.Field { return zap.String("layer", v) }

func Err(err error) zap.Field { return zap.Error(err) }

func Any(key string, v any) zap.Field { return zap.Any(key, v) }

func String(key, v string) zap.Field { return zap.String(key, v) }

func Int(key string, v int) zap.Field { return zap.Int(key, v) }

func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
