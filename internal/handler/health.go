package handler

import (
	"context"
	"net/http"

	"github.com/pkordes/globetrotter/backend/spec"
)

// HealthHandler serves the liveness probe.
type HealthHandler struct {
	ping func(context.Context) error
}

// NewHealthHandler returns a HealthHandler. ping, when non-nil, is called on
// every probe so a lost database connection shows up as 503.
func NewHealthHandler(ping func(context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

type healthResponse struct {
	Status string `json:"status"`
}

// GetHealth implements GET /healthz.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// GetOpenAPI serves the embedded OpenAPI document at GET /openapi.yaml.
func GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(spec.OpenAPI)
}
