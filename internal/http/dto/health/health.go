// Package health contiene DTOs para health checks.
package health

type HealthResponse struct {
	Status     string            `json:"status"` // ready | unavailable
	Components map[string]string `json:"components,omitempty"`
	SigningKID string            `json:"signing_kid,omitempty"`
}
