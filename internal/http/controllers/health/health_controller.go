// Package health contiene el controller para health checks.
package health

import (
	"net/http"

	"github.com/dropDatabas3/ezdine/internal/http/helpers"
	svc "github.com/dropDatabas3/ezdine/internal/http/services/health"
	"github.com/dropDatabas3/ezdine/internal/observability/logger"
)

type HealthController struct {
	service svc.HealthService
}

func NewHealthController(service svc.HealthService) *HealthController {
	return &HealthController{service: service}
}

// Readyz maneja GET /readyz
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res := c.service.Check(ctx)

	status := http.StatusOK
	if res.Status == "unavailable" {
		status = http.StatusServiceUnavailable
	}
	logger.From(ctx).Debug("health check completed",
		logger.Layer("controller"),
		logger.String("status", res.Status),
	)
	helpers.WriteJSON(w, status, res)
}

// Livez maneja GET /livez: el proceso responde.
func (c *HealthController) Livez(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
