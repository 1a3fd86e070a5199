package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medwaste/classify-be/internal/auth"
	"github.com/medwaste/classify-be/internal/models"
	"github.com/medwaste/classify-be/internal/services"
	"github.com/rs/zerolog/log"
)

// HistoryHandler handles HTTP requests for classification history.
type HistoryHandler struct {
	service services.HistoryServiceProvider
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(service services.HistoryServiceProvider) *HistoryHandler {
	return &HistoryHandler{service: service}
}

func (h *HistoryHandler) fetch(r *http.Request) (models.Identity, auth.Role, []models.ClassificationRecord, error) {
	identity, _ := auth.IdentityFromContext(r.Context())
	role := auth.RoleOf(identity)
	records, err := h.service.List(r.Context(), identity, role)
	if records == nil {
		records = []models.ClassificationRecord{}
	}
	return identity, role, records, err
}

// List returns the caller's records newest first (administrators see the
// full table), refined by the optional q and category query parameters the
// same way the history screen refines its fetched set.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	_, _, records, err := h.fetch(r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list classification history")
		writeServiceError(w, err, "Failed to retrieve history")
		return
	}

	filtered := services.FilterRecords(records, services.Filter{
		Term:     r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records":    filtered,
		"categories": services.DistinctCategories(records),
	})
}

// Delete removes a single record and responds with the re-fetched list, so
// the caller always renders backend truth instead of an optimistic removal.
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	role := auth.RoleOf(identity)
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteOne(r.Context(), identity, role, id); err != nil {
		log.Warn().Err(err).Str("record_id", id).Msg("Failed to delete history record")
		writeServiceError(w, err, "Failed to delete record")
		return
	}

	_, _, records, err := h.fetch(r)
	if err != nil {
		writeServiceError(w, err, "Failed to retrieve history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

// Clear deletes every record the caller owns. Administrators are refused:
// the unscoped table must not be bulk-cleared.
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	role := auth.RoleOf(identity)

	if err := h.service.ClearAll(r.Context(), identity, role); err != nil {
		log.Warn().Err(err).Str("user_id", identity.ID).Msg("Failed to clear history")
		writeServiceError(w, err, "Failed to clear history")
		return
	}

	_, _, records, err := h.fetch(r)
	if err != nil {
		writeServiceError(w, err, "Failed to retrieve history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}
