// Package health contiene el service de readiness.
package health

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	dto "github.com/dropDatabas3/ezdine/internal/http/dto/health"
)

// Pinger es cualquier dependencia que sabe responder un ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	// Checks: nombre del componente -> pinger. "store" es obligatorio para
	// estar ready; el resto sólo se reporta.
	Checks     map[string]Pinger
	SigningKID string
	Timeout    time.Duration
}

type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

type healthService struct {
	deps Deps
	// sf agrupa chequeos concurrentes en una sola ronda de pings.
	sf singleflight.Group
}

func NewHealthService(d Deps) HealthService {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	return &healthService{deps: d}
}

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	v, _, _ := s.sf.Do("check", func() (any, error) {
		return s.check(context.WithoutCancel(ctx)), nil
	})
	return v.(dto.HealthResponse)
}

func (s *healthService) check(ctx context.Context) dto.HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
	defer cancel()

	resp := dto.HealthResponse{Status: "ready", Components: map[string]string{}, SigningKID: s.deps.SigningKID}
	for name, p := range s.deps.Checks {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			resp.Components[name] = "down"
			if name == "store" {
				resp.Status = "unavailable"
			}
			continue
		}
		resp.Components[name] = "up"
	}
	return resp
}
