package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medwaste/classify-be/internal/classifier"
	"github.com/medwaste/classify-be/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError translates sentinel errors into HTTP statuses; anything
// unrecognized becomes the fallback message with a 500.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, services.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, services.ErrBackendUnavailable):
		http.Error(w, fallback, http.StatusServiceUnavailable)
	case errors.Is(err, classifier.ErrClassificationFailed):
		http.Error(w, "Failed to classify image. Please try again.", http.StatusBadGateway)
	default:
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}
