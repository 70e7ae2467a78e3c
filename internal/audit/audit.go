// Package audit registra eventos de seguridad (logins, altas, cambios de
// credencial) en un logger zap propio, separado del log de requests.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/ezdine/internal/observability/logger"
)

const (
	EventSessionIssued   = "session.issued"
	EventLoginFailed     = "login.failed"
	EventUserRegistered  = "user.registered"
	EventPasswordChanged = "user.password_changed"
)

// Log escribe el evento con los campos del request (request_id, etc.) que
// haya en ctx.
func Log(ctx context.Context, event string, fields ...zap.Field) {
	logger.From(ctx).Named("audit").Info(event, append(fields, zap.String("event", event))...)
}
