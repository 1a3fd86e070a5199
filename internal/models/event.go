package models

import "time"

// Event represents an operator-facing log entry, e.g. a classification
// record that could not be persisted after the result was already shown.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g. "history.persist_failed"
	Level     string    `json:"level"` // e.g. "info", "warn", "error"
	Message   string    `json:"message"`
	UserID    *string   `json:"userId,omitempty"` // Nullable for system-wide events
	CreatedAt time.Time `json:"createdAt"`
}
