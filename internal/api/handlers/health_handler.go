package handlers

import (
	"database/sql"
	"net/http"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HealthHandler reports service liveness for load balancers and operators.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health returns database reachability plus basic host figures.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	payload := map[string]interface{}{
		"status":   "ok",
		"database": "ok",
	}

	if err := h.db.PingContext(r.Context()); err != nil {
		status = http.StatusServiceUnavailable
		payload["status"] = "degraded"
		payload["database"] = err.Error()
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		payload["memory_used_percent"] = vm.UsedPercent
	}
	if uptime, err := host.Uptime(); err == nil {
		payload["host_uptime_seconds"] = uptime
	}

	writeJSON(w, status, payload)
}
