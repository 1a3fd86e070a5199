package handlers

import (
	"net/http"
	"time"

	"github.com/medwaste/classify-be/internal/services"
)

// StatsHandler serves the administrator dashboard metrics.
type StatsHandler struct {
	service services.StatsServiceProvider
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service services.StatsServiceProvider) *StatsHandler {
	return &StatsHandler{service: service}
}

// Dashboard returns the aggregate metrics. Aggregation failures were
// already logged to the operator channel and yield the zeroed metrics
// object, so the dashboard always has something defined to render.
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, _ := h.service.Dashboard(r.Context(), time.Now().UTC())
	writeJSON(w, http.StatusOK, stats)
}
