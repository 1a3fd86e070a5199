package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medwaste/classify-be/internal/auth"
	"github.com/medwaste/classify-be/internal/cache"
	"github.com/medwaste/classify-be/internal/classifier"
	"github.com/medwaste/classify-be/internal/models"
	"github.com/medwaste/classify-be/internal/services"
	"github.com/medwaste/classify-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// maxUploadBytes bounds classification image uploads.
const maxUploadBytes = 10 << 20

// ClassifyHandler handles image classification requests and the category
// catalog.
type ClassifyHandler struct {
	classifier *classifier.Client
	history    services.HistoryServiceProvider
	events     services.EventServiceProvider
	recent     *cache.RecentCache
	hub        *websocket.Hub
}

// NewClassifyHandler creates a new ClassifyHandler.
func NewClassifyHandler(client *classifier.Client, history services.HistoryServiceProvider, events services.EventServiceProvider, recent *cache.RecentCache, hub *websocket.Hub) *ClassifyHandler {
	return &ClassifyHandler{
		classifier: client,
		history:    history,
		events:     events,
		recent:     recent,
		hub:        hub,
	}
}

func allowedFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// Classify uploads the image to the classification service, appends the
// result to the caller's history, and mirrors it into the recent cache.
// A failed history write is logged to the operator channel but does not
// undo the classification the caller already received.
func (h *ClassifyHandler) Classify(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve identity from token", http.StatusInternalServerError)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "No image part", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !allowedFile(header.Filename) {
		http.Error(w, "File type not allowed", http.StatusBadRequest)
		return
	}

	result, err := h.classifier.Classify(r.Context(), header.Filename, file)
	if err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("Classification request failed")
		writeServiceError(w, err, "Failed to classify image")
		return
	}

	record := models.ClassificationRecord{
		ID:             uuid.New().String(),
		UserID:         identity.ID,
		Filename:       header.Filename,
		TopCategory:    result.TopCategory,
		Confidence:     result.Confidence,
		AllPredictions: result.AllPredictions,
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.history.Insert(r.Context(), record); err != nil {
		// The user already has their result; losing the row is an operator
		// problem, not a user-facing failure.
		log.Error().Err(err).Str("user_id", identity.ID).Str("filename", header.Filename).
			Msg("Failed to persist classification record")
		if evErr := h.events.CreateEvent(r.Context(), "history.persist_failed", "error", err.Error(), &identity.ID); evErr != nil {
			log.Error().Err(evErr).Msg("Failed to record persistence failure event")
		}
	} else {
		h.hub.BroadcastToUser(identity.ID, websocket.NewMessage("classification.created", record))
	}

	if err := h.recent.Add(result); err != nil {
		log.Warn().Err(err).Msg("Failed to update recent results cache")
	}

	writeJSON(w, http.StatusOK, result)
}

// Categories returns the disposal category catalog.
func (h *ClassifyHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.classifier.Categories(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch category catalog")
		writeServiceError(w, err, "Failed to fetch categories")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// Recent returns the device-local mirror of the latest classification
// results, newest first.
func (h *ClassifyHandler) Recent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.recent.All())
}
