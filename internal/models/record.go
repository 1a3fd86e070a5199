package models

import "time"

// Prediction is a single category/confidence pair returned by the
// classification service.
type Prediction struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// ClassificationRecord is one persisted outcome of a waste-image
// classification. Records are immutable after creation except for deletion;
// a record is visible to its owner and to administrators.
type ClassificationRecord struct {
	ID             string       `json:"id"`
	UserID         string       `json:"userId"`
	Filename       string       `json:"filename"`
	TopCategory    string       `json:"topCategory"`
	Confidence     float64      `json:"confidence"`
	AllPredictions []Prediction `json:"allPredictions"`
	CreatedAt      time.Time    `json:"createdAt"`
}
