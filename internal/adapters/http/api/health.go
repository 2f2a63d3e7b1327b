// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cuatro-costuras/public-baseball/pkg/metrics"
)

// ReadinessProbe reports whether a season has been loaded.
type ReadinessProbe interface {
	Ready(ctx context.Context) bool
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	probe ReadinessProbe
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(probe ReadinessProbe) *HealthHandler {
	return &HealthHandler{probe: probe}
}

type healthResponse struct {
	Status string `json:"status"`
	Ready  bool   `json:"ready"`
}

// HandleHealth handles GET /healthz requests. The process is healthy as
// soon as it serves; ready flips once a season snapshot is published.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Ready:  h.probe.Ready(r.Context()),
	})
}

// HandleMetrics serves Prometheus metrics from the custom registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
