// Package handler provides HTTP handlers for the VisitRoute API.
package handler

import (
	"net/http"
	"time"

	"github.com/visitroute/visitroute/internal/api/models"
	"github.com/visitroute/visitroute/internal/api/response"
	"github.com/visitroute/visitroute/internal/provider/resilience"
	"github.com/visitroute/visitroute/internal/travelgraph"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	graphs    *travelgraph.Service
	providers *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, graphs *travelgraph.Service, providers *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		graphs:    graphs,
		providers: providers,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. The service
// cannot plan itineraries before the first travel-time matrix build, so
// readiness follows the graph snapshot.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	status := http.StatusOK
	if _, err := h.graphs.Snapshot(); err != nil {
		health.Status = models.HealthStatusFail
		health.Details = map[string]interface{}{"travelGraph": err.Error()}
		status = http.StatusServiceUnavailable
	}

	response.JSON(w, r, status, health)
}

// SystemStatus handles GET /v1/ops/status - subsystem and provider status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())

	overall := models.HealthStatusOK

	graphStatus := models.SubsystemStatus{Name: "travel-graph", Status: models.HealthStatusOK}
	if builtAt := h.graphs.BuiltAt(); builtAt.IsZero() {
		graphStatus.Status = models.HealthStatusFail
		overall = models.HealthStatusFail
	} else {
		detail := "built at " + builtAt.Format(time.RFC3339)
		graphStatus.Detail = &detail
	}

	var providers []models.ProviderStatus
	for _, ph := range h.providers.GetAllHealth() {
		providers = append(providers, toProviderStatus(ph))
	}
	for _, p := range providers {
		if p.Status == models.HealthStatusDegraded && overall == models.HealthStatusOK {
			overall = models.HealthStatusDegraded
		}
		if p.Status == models.HealthStatusFail {
			overall = models.HealthStatusFail
		}
	}

	status := models.SystemStatus{
		Status:     overall,
		Time:       now,
		Subsystems: []models.SubsystemStatus{graphStatus},
		Providers:  providers,
	}
	response.JSON(w, r, http.StatusOK, status)
}

func toProviderStatus(ph *resilience.ProviderHealth) models.ProviderStatus {
	out := models.ProviderStatus{
		Provider: ph.Name,
		Status:   models.HealthStatusOK,
	}
	switch {
	case ph.IsDegraded():
		out.Status = models.HealthStatusDegraded
	case !ph.IsHealthy():
		out.Status = models.HealthStatusFail
	}
	if ph.LastSuccessAt != nil {
		ts := models.Timestamp(*ph.LastSuccessAt)
		out.LastSuccessAt = &ts
	}
	if ph.LastFailureAt != nil {
		ts := models.Timestamp(*ph.LastFailureAt)
		out.LastFailureAt = &ts
	}
	if ph.LastError != "" {
		msg := ph.LastError
		out.Message = &msg
	}
	return out
}
